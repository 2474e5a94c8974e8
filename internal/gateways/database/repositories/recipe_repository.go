package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/ellavondegurechaff/foodgram/internal/domain/recipes"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

type recipeRepository struct {
	BaseRepository
}

var _ recipes.Repository = &recipeRepository{}

func NewRecipeRepository(db bun.IDB) *recipeRepository {
	return &recipeRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *recipeRepository) InTx(ctx context.Context, fn func(ctx context.Context, repo recipes.Repository) error) error {
	return r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &recipeRepository{BaseRepository: r.bind(tx)})
	})
}

// withRelations loads the author, the tags and the ingredient lines with
// their ingredients.
func withRelations(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("Author").
		Relation("Tags", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("t.id ASC")
		}).
		Relation("Ingredients", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("ri.id ASC")
		}).
		Relation("Ingredients.Ingredient")
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	recipe := new(models.Recipe)
	err := withRelations(r.db.NewSelect().Model(recipe)).
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "recipe", id, err)
	}
	return recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, filter models.RecipeFilter, page models.Page) ([]*models.Recipe, int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var found []*models.Recipe
	q := withRelations(r.db.NewSelect().Model(&found))

	if filter.AuthorID != 0 {
		q = q.Where("r.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := r.db.NewSelect().
			TableExpr("recipe_tags AS rtf").
			Join("JOIN tags AS tf ON tf.id = rtf.tag_id").
			Column("rtf.recipe_id").
			Where("tf.slug IN (?)", bun.In(filter.TagSlugs))
		q = q.Where("r.id IN (?)", tagged)
	}
	if filter.FavoritedBy != 0 {
		q = q.Where("EXISTS (SELECT 1 FROM favorites AS fav WHERE fav.recipe_id = r.id AND fav.user_id = ?)", filter.FavoritedBy)
	}
	if filter.InCartOf != 0 {
		q = q.Where("EXISTS (SELECT 1 FROM shopping_cart AS sc WHERE sc.recipe_id = r.id AND sc.user_id = ?)", filter.InCartOf)
	}

	total, err := q.
		Order("r.created_at DESC", "r.id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, r.HandleError("list", "recipe", nil, err)
	}
	return found, total, nil
}

func (r *recipeRepository) MissingTags(ctx context.Context, ids []int64) ([]int64, error) {
	return r.missingIDs(ctx, "tags", ids)
}

func (r *recipeRepository) MissingIngredients(ctx context.Context, ids []int64) ([]int64, error) {
	return r.missingIDs(ctx, "ingredients", ids)
}

func (r *recipeRepository) Insert(ctx context.Context, recipe *models.Recipe) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(recipe).
		Returning("id").
		Exec(ctx)
	return r.HandleError("insert", "recipe", nil, err)
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model(recipe).
		Column("name", "text", "image", "cooking_time", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return r.HandleError("update", "recipe", recipe.ID, err)
	}
	return requireAffected(res, "recipe", recipe.ID)
}

func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Recipe)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleError("delete", "recipe", id, err)
	}
	return requireAffected(res, "recipe", id)
}

func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipeID int64, items []*models.RecipeIngredient) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.RecipeIngredient)(nil)).
		Where("recipe_id = ?", recipeID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("replace_ingredients", "recipe ingredient", recipeID, err)
	}
	if len(items) == 0 {
		return nil
	}

	_, err = r.db.NewInsert().Model(&items).Exec(ctx)
	return r.HandleError("replace_ingredients", "recipe ingredient", recipeID, err)
}

func (r *recipeRepository) ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.RecipeTag)(nil)).
		Where("recipe_id = ?", recipeID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("replace_tags", "recipe tag", recipeID, err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]*models.RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		rows[i] = &models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	_, err = r.db.NewInsert().Model(&rows).Exec(ctx)
	return r.HandleError("replace_tags", "recipe tag", recipeID, err)
}

func (r *recipeRepository) Flags(ctx context.Context, viewerID int64, recipeIDs []int64) (map[int64]models.RecipeFlags, error) {
	flags := make(map[int64]models.RecipeFlags, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return flags, nil
	}

	favorited, err := r.memberIDs(ctx, "favorites", "recipe_id", viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := r.memberIDs(ctx, "shopping_cart", "recipe_id", viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range recipeIDs {
		flags[id] = models.RecipeFlags{Favorited: favorited[id], InCart: inCart[id]}
	}
	return flags, nil
}

func (r *recipeRepository) SubscribedTo(ctx context.Context, viewerID int64, authorIDs []int64) (map[int64]bool, error) {
	return r.memberIDs(ctx, "follows", "following_id", viewerID, authorIDs)
}
