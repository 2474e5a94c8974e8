package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/ellavondegurechaff/foodgram/internal/domain/collections"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

type collectionRepository struct {
	BaseRepository
}

var _ collections.Repository = &collectionRepository{}

func NewCollectionRepository(db bun.IDB) *collectionRepository {
	return &collectionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *collectionRepository) InTx(ctx context.Context, fn func(ctx context.Context, repo collections.Repository) error) error {
	return r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &collectionRepository{BaseRepository: r.bind(tx)})
	})
}

// entryModel returns the table model backing a collection kind.
func entryModel(kind collections.Kind, userID, recipeID int64) (interface{}, error) {
	now := time.Now()
	switch kind {
	case collections.Favorites:
		return &models.Favorite{UserID: userID, RecipeID: recipeID, CreatedAt: now}, nil
	case collections.ShoppingCart:
		return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID, CreatedAt: now}, nil
	}
	return nil, fmt.Errorf("unknown collection kind %d", kind)
}

func (r *collectionRepository) RecipeByID(ctx context.Context, id int64) (*models.Recipe, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	recipe := new(models.Recipe)
	err := r.db.NewSelect().
		Model(recipe).
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "recipe", id, err)
	}
	return recipe, nil
}

func (r *collectionRepository) Exists(ctx context.Context, kind collections.Kind, userID, recipeID int64) (bool, error) {
	model, err := entryModel(kind, userID, recipeID)
	if err != nil {
		return false, err
	}
	q := r.db.NewSelect().
		Model(model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID)
	return r.BaseRepository.Exists(ctx, kind.String()+" entry", q)
}

func (r *collectionRepository) Add(ctx context.Context, kind collections.Kind, userID, recipeID int64) error {
	model, err := entryModel(kind, userID, recipeID)
	if err != nil {
		return err
	}

	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err = r.db.NewInsert().Model(model).Exec(ctx)
	return r.HandleError("add", kind.String()+" entry", recipeID, err)
}

func (r *collectionRepository) Remove(ctx context.Context, kind collections.Kind, userID, recipeID int64) error {
	model, err := entryModel(kind, userID, recipeID)
	if err != nil {
		return err
	}

	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model(model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("remove", kind.String()+" entry", recipeID, err)
	}
	return requireAffected(res, kind.String()+" entry", recipeID)
}
