package catalog

import (
	"context"

	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	ListTags(ctx context.Context) ([]*models.Tag, error)
	GetTag(ctx context.Context, id int64) (*models.Tag, error)
	GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error)
	// SearchIngredients matches names starting with prefix, case-insensitively.
	SearchIngredients(ctx context.Context, prefix string) ([]*models.Ingredient, error)
	AllIngredients(ctx context.Context) ([]*models.Ingredient, error)
	// InsertTags and InsertIngredients skip rows that already exist and
	// report how many were created.
	InsertTags(ctx context.Context, tags []*models.Tag) (int, error)
	InsertIngredients(ctx context.Context, ingredients []*models.Ingredient) (int, error)
}
