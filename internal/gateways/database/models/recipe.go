package models

import (
	"math"
	"time"

	"github.com/uptrace/bun"
)

type Recipe struct {
	bun.BaseModel `bun:"table:recipes,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement"`
	AuthorID    int64     `bun:"author_id,notnull"`
	Name        string    `bun:"name,notnull"`
	Text        string    `bun:"text,notnull"`
	Image       string    `bun:"image,notnull"`
	CookingTime int       `bun:"cooking_time,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	// Relations
	Author      *User               `bun:"rel:belongs-to,join:author_id=id"`
	Tags        []*Tag              `bun:"m2m:recipe_tags,join:Recipe=Tag"`
	Ingredients []*RecipeIngredient `bun:"rel:has-many,join:id=recipe_id"`
}

type RecipeIngredient struct {
	bun.BaseModel `bun:"table:recipe_ingredients,alias:ri"`

	ID           int64 `bun:"id,pk,autoincrement"`
	RecipeID     int64 `bun:"recipe_id,notnull,unique:recipe_ingredient"`
	IngredientID int64 `bun:"ingredient_id,notnull,unique:recipe_ingredient"`
	Amount       int   `bun:"amount,notnull"`

	Ingredient *Ingredient `bun:"rel:belongs-to,join:ingredient_id=id"`
}

// RecipeTag is the join row behind Recipe.Tags and must be registered with bun.
type RecipeTag struct {
	bun.BaseModel `bun:"table:recipe_tags,alias:rt"`

	RecipeID int64 `bun:"recipe_id,pk"`
	TagID    int64 `bun:"tag_id,pk"`

	Recipe *Recipe `bun:"rel:belongs-to,join:recipe_id=id"`
	Tag    *Tag    `bun:"rel:belongs-to,join:tag_id=id"`
}

// RecipeFilter narrows recipe listings. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID    int64
	TagSlugs    []string
	FavoritedBy int64
	InCartOf    int64
}

// RecipeFlags are the per-viewer markers of a recipe.
type RecipeFlags struct {
	Favorited bool
	InCart    bool
}

type Page struct {
	Limit  int
	Offset int
}

// Paginate converts a 1-based page number and a page size into an offset
// window. A non-positive limit falls back to defaultLimit, larger ones are
// capped at maxLimit. Pages past the int32 offset range map to the last
// window inside it, which is empty for any real table.
func Paginate(page, limit, defaultLimit, maxLimit int) Page {
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if page < 1 {
		page = 1
	}
	if limit > 0 && page-1 > math.MaxInt32/limit {
		page = math.MaxInt32/limit + 1
	}
	return Page{Limit: limit, Offset: (page - 1) * limit}
}
