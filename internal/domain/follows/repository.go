package follows

import (
	"context"

	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error

	UserByID(ctx context.Context, id int64) (*models.User, error)
	Exists(ctx context.Context, followerID, targetID int64) (bool, error)
	Insert(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, targetID int64) error
	Following(ctx context.Context, userID int64, page models.Page) ([]*models.User, int, error)
	RecentRecipes(ctx context.Context, authorID int64, limit int) ([]*models.Recipe, error)
	CountRecipes(ctx context.Context, authorID int64) (int, error)
}
