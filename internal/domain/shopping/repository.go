package shopping

import (
	"context"

	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type Repository interface {
	// Aggregate sums the ingredient amounts of every recipe in the user's
	// cart, one line per ingredient, ordered by ingredient id.
	Aggregate(ctx context.Context, userID int64) ([]models.ShoppingLine, error)
}
