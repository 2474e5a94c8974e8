package collections

import (
	"context"

	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

	RecipeByID(ctx context.Context, id int64) (*models.Recipe, error)
	Exists(ctx context.Context, kind Kind, userID, recipeID int64) (bool, error)
	Add(ctx context.Context, kind Kind, userID, recipeID int64) error
	Remove(ctx context.Context, kind Kind, userID, recipeID int64) error
}
