package repositories

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/domain/catalog"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

type catalogRepository struct {
	BaseRepository
}

var _ catalog.Repository = &catalogRepository{}

func NewCatalogRepository(db bun.IDB) *catalogRepository {
	return &catalogRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *catalogRepository) ListTags(ctx context.Context) ([]*models.Tag, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var tags []*models.Tag
	if err := r.db.NewSelect().Model(&tags).Order("t.id ASC").Scan(ctx); err != nil {
		return nil, r.HandleError("list", "tag", nil, err)
	}
	return tags, nil
}

func (r *catalogRepository) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	tag := new(models.Tag)
	if err := r.db.NewSelect().Model(tag).Where("t.id = ?", id).Scan(ctx); err != nil {
		return nil, r.HandleError("get", "tag", id, err)
	}
	return tag, nil
}

func (r *catalogRepository) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ingredient := new(models.Ingredient)
	if err := r.db.NewSelect().Model(ingredient).Where("i.id = ?", id).Scan(ctx); err != nil {
		return nil, r.HandleError("get", "ingredient", id, err)
	}
	return ingredient, nil
}

func (r *catalogRepository) SearchIngredients(ctx context.Context, prefix string) ([]*models.Ingredient, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var found []*models.Ingredient
	err := r.db.NewSelect().
		Model(&found).
		Where("lower(i.name) LIKE ? ESCAPE '\\'", likePrefix(strings.ToLower(prefix))).
		Order("i.name ASC", "i.id ASC").
		Limit(config.IngredientSearchMax).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("search", "ingredient", nil, err)
	}
	return found, nil
}

func (r *catalogRepository) AllIngredients(ctx context.Context) ([]*models.Ingredient, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var found []*models.Ingredient
	if err := r.db.NewSelect().Model(&found).Order("i.name ASC", "i.id ASC").Scan(ctx); err != nil {
		return nil, r.HandleError("list", "ingredient", nil, err)
	}
	return found, nil
}

func (r *catalogRepository) InsertTags(ctx context.Context, tags []*models.Tag) (int, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	return r.BatchInsert(ctx, "tag", &tags)
}

func (r *catalogRepository) InsertIngredients(ctx context.Context, ingredients []*models.Ingredient) (int, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	return r.BatchInsert(ctx, "ingredient", &ingredients)
}

// likePrefix escapes LIKE wildcards in s and appends one trailing %.
func likePrefix(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s) + "%"
}
