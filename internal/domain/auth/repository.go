package auth

import (
	"context"
	"time"

	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	InsertToken(ctx context.Context, token *models.AuthToken) error
	TokenActive(ctx context.Context, id string, now time.Time) (bool, error)
	DeleteToken(ctx context.Context, id string) error
}

// Authenticator resolves login credentials to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}
