// Package collections toggles a recipe in a user's favorites or shopping cart.
// Both collections share one state machine: a (user, recipe) pair is either
// present or absent, and only Add and Remove move it.
package collections

import (
	"context"
	"log/slog"

	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

type Kind int

const (
	Favorites Kind = iota
	ShoppingCart
)

func (k Kind) String() string {
	switch k {
	case Favorites:
		return "favorites"
	case ShoppingCart:
		return "shopping cart"
	}
	return "unknown"
}

type Service struct {
	repository Repository
}

func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Add puts the recipe into the collection and returns it. Conflict when it
// is already there, NotFound when the recipe does not exist.
func (s *Service) Add(ctx context.Context, kind Kind, userID, recipeID int64) (*models.Recipe, error) {
	var recipe *models.Recipe
	err := s.repository.InTx(ctx, func(ctx context.Context, repo Repository) error {
		found, err := repo.RecipeByID(ctx, recipeID)
		if err != nil {
			return err
		}

		exists, err := repo.Exists(ctx, kind, userID, recipeID)
		if err != nil {
			return err
		}
		if exists {
			return errs.Conflict(kind.String()+" entry", "recipe", recipeID)
		}

		// A concurrent insert loses on the unique constraint and the
		// repository reports it as a conflict as well.
		if err := repo.Add(ctx, kind, userID, recipeID); err != nil {
			return err
		}
		recipe = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Recipe added",
		slog.String("collection", kind.String()),
		slog.Int64("user_id", userID),
		slog.Int64("recipe_id", recipeID))
	return recipe, nil
}

// Remove takes the recipe out of the collection. NotFound when the recipe or
// the entry does not exist.
func (s *Service) Remove(ctx context.Context, kind Kind, userID, recipeID int64) error {
	return s.repository.InTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := repo.RecipeByID(ctx, recipeID); err != nil {
			return err
		}

		exists, err := repo.Exists(ctx, kind, userID, recipeID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NotFound(kind.String()+" entry", recipeID)
		}

		return repo.Remove(ctx, kind, userID, recipeID)
	})
}
