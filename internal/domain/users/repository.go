package users

import (
	"context"

	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, page models.Page) ([]*models.User, int, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	SubscribedTo(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error)
}
