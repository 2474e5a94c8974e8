package recipes

import (
	"context"

	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	// InTx runs fn against a copy of the repository bound to one transaction.
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	List(ctx context.Context, filter models.RecipeFilter, page models.Page) ([]*models.Recipe, int, error)
	MissingTags(ctx context.Context, ids []int64) ([]int64, error)
	MissingIngredients(ctx context.Context, ids []int64) ([]int64, error)
	Insert(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id int64) error
	ReplaceIngredients(ctx context.Context, recipeID int64, items []*models.RecipeIngredient) error
	ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error
	Flags(ctx context.Context, viewerID int64, recipeIDs []int64) (map[int64]models.RecipeFlags, error)
	SubscribedTo(ctx context.Context, viewerID int64, authorIDs []int64) (map[int64]bool, error)
}

// ImageStore persists recipe images and hands back the reference kept on the recipe.
// Owns reports whether ref points at an object the store would Remove.
type ImageStore interface {
	Save(ctx context.Context, image string) (string, error)
	Remove(ctx context.Context, ref string) error
	Owns(ref string) bool
}
