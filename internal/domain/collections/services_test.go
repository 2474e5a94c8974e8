package collections_test

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/ellavondegurechaff/foodgram/internal/domain/collections"
	"github.com/ellavondegurechaff/foodgram/internal/domain/collections/mock"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

func newRepo(t *testing.T) *mock.MockRepository {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().
		InTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, collections.Repository) error) error {
			return fn(ctx, repo)
		}).
		AnyTimes()
	return repo
}

func Test_service_Add(t *testing.T) {
	recipe := &models.Recipe{ID: 5, Name: "Soup"}

	tests := []struct {
		name    string
		kind    collections.Kind
		setup   func(repo *mock.MockRepository)
		want    *models.Recipe
		wantErr func(error) bool
	}{
		{
			name: "adds favorite",
			kind: collections.Favorites,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().RecipeByID(gomock.Any(), int64(5)).Return(recipe, nil)
				repo.EXPECT().Exists(gomock.Any(), collections.Favorites, int64(1), int64(5)).Return(false, nil)
				repo.EXPECT().Add(gomock.Any(), collections.Favorites, int64(1), int64(5)).Return(nil)
			},
			want: recipe,
		},
		{
			name: "second add conflicts",
			kind: collections.ShoppingCart,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().RecipeByID(gomock.Any(), int64(5)).Return(recipe, nil)
				repo.EXPECT().Exists(gomock.Any(), collections.ShoppingCart, int64(1), int64(5)).Return(true, nil)
			},
			wantErr: errs.IsConflict,
		},
		{
			name: "lost race surfaces as conflict",
			kind: collections.Favorites,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().RecipeByID(gomock.Any(), int64(5)).Return(recipe, nil)
				repo.EXPECT().Exists(gomock.Any(), collections.Favorites, int64(1), int64(5)).Return(false, nil)
				repo.EXPECT().Add(gomock.Any(), collections.Favorites, int64(1), int64(5)).
					Return(errs.Conflict("favorites entry", "recipe", int64(5)))
			},
			wantErr: errs.IsConflict,
		},
		{
			name: "unknown recipe",
			kind: collections.Favorites,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().RecipeByID(gomock.Any(), int64(5)).Return(nil, errs.NotFound("recipe", int64(5)))
			},
			wantErr: errs.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t)
			tt.setup(repo)

			got, err := collections.NewService(repo).Add(context.Background(), tt.kind, 1, 5)
			if tt.wantErr != nil {
				if !tt.wantErr(err) {
					t.Fatalf("Add() error = %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Add() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_service_Remove(t *testing.T) {
	recipe := &models.Recipe{ID: 5}

	tests := []struct {
		name    string
		setup   func(repo *mock.MockRepository)
		wantErr func(error) bool
	}{
		{
			name: "removes entry",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().RecipeByID(gomock.Any(), int64(5)).Return(recipe, nil)
				repo.EXPECT().Exists(gomock.Any(), collections.ShoppingCart, int64(1), int64(5)).Return(true, nil)
				repo.EXPECT().Remove(gomock.Any(), collections.ShoppingCart, int64(1), int64(5)).Return(nil)
			},
		},
		{
			name: "absent entry",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().RecipeByID(gomock.Any(), int64(5)).Return(recipe, nil)
				repo.EXPECT().Exists(gomock.Any(), collections.ShoppingCart, int64(1), int64(5)).Return(false, nil)
			},
			wantErr: errs.IsNotFound,
		},
		{
			name: "unknown recipe",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().RecipeByID(gomock.Any(), int64(5)).Return(nil, errs.NotFound("recipe", int64(5)))
			},
			wantErr: errs.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t)
			tt.setup(repo)

			err := collections.NewService(repo).Remove(context.Background(), collections.ShoppingCart, 1, 5)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if tt.wantErr != nil && !tt.wantErr(err) {
				t.Fatalf("Remove() error = %v", err)
			}
		})
	}
}
