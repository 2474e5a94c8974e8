package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:fav"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull,unique:favorite_user_recipe"`
	RecipeID  int64     `bun:"recipe_id,notnull,unique:favorite_user_recipe"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type ShoppingCartEntry struct {
	bun.BaseModel `bun:"table:shopping_cart,alias:sc"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull,unique:cart_user_recipe"`
	RecipeID  int64     `bun:"recipe_id,notnull,unique:cart_user_recipe"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:f"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      int64     `bun:"user_id,notnull,unique:follow_user_following"`
	FollowingID int64     `bun:"following_id,notnull,unique:follow_user_following"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ShoppingLine is one aggregated row of a shopping list.
type ShoppingLine struct {
	IngredientID    int64  `bun:"ingredient_id"`
	Name            string `bun:"name"`
	MeasurementUnit string `bun:"measurement_unit"`
	Total           int    `bun:"total"`
}
