package follows_test

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/domain/follows"
	"github.com/ellavondegurechaff/foodgram/internal/domain/follows/mock"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

func repoMock(t *testing.T) *mock.MockRepository {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().
		InTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, follows.Repository) error) error {
			return fn(ctx, repo)
		}).
		AnyTimes()
	return repo
}

func Test_service_Follow(t *testing.T) {
	target := &models.User{ID: 2, Username: "chef"}

	tests := []struct {
		name     string
		follower int64
		target   int64
		setup    func(repo *mock.MockRepository)
		wantErr  func(error) bool
	}{
		{
			name:     "follows author",
			follower: 1,
			target:   2,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().UserByID(gomock.Any(), int64(2)).Return(target, nil)
				repo.EXPECT().Exists(gomock.Any(), int64(1), int64(2)).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), &models.Follow{UserID: 1, FollowingID: 2}).Return(nil)
			},
		},
		{
			name:     "self follow is rejected before any lookup",
			follower: 3,
			target:   3,
			setup:    func(repo *mock.MockRepository) {},
			wantErr:  errs.IsValidation,
		},
		{
			name:     "duplicate follow",
			follower: 1,
			target:   2,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().UserByID(gomock.Any(), int64(2)).Return(target, nil)
				repo.EXPECT().Exists(gomock.Any(), int64(1), int64(2)).Return(true, nil)
			},
			wantErr: errs.IsConflict,
		},
		{
			name:     "unknown author",
			follower: 1,
			target:   9,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().UserByID(gomock.Any(), int64(9)).Return(nil, errs.NotFound("user", int64(9)))
			},
			wantErr: errs.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoMock(t)
			tt.setup(repo)

			got, err := follows.NewService(repo, 6).Follow(context.Background(), tt.follower, tt.target)
			if tt.wantErr != nil {
				if !tt.wantErr(err) {
					t.Fatalf("Follow() error = %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Follow() error = %v", err)
			}
			if got.UserID != tt.follower || got.FollowingID != tt.target {
				t.Errorf("Follow() = %+v", got)
			}
		})
	}
}

func Test_service_Unfollow(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(repo *mock.MockRepository)
		wantErr func(error) bool
	}{
		{
			name: "removes edge",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().UserByID(gomock.Any(), int64(2)).Return(&models.User{ID: 2}, nil)
				repo.EXPECT().Exists(gomock.Any(), int64(1), int64(2)).Return(true, nil)
				repo.EXPECT().Delete(gomock.Any(), int64(1), int64(2)).Return(nil)
			},
		},
		{
			name: "missing edge",
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().UserByID(gomock.Any(), int64(2)).Return(&models.User{ID: 2}, nil)
				repo.EXPECT().Exists(gomock.Any(), int64(1), int64(2)).Return(false, nil)
			},
			wantErr: errs.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoMock(t)
			tt.setup(repo)

			err := follows.NewService(repo, 6).Unfollow(context.Background(), 1, 2)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Unfollow() error = %v", err)
			}
			if tt.wantErr != nil && !tt.wantErr(err) {
				t.Fatalf("Unfollow() error = %v", err)
			}
		})
	}
}

func Test_service_Subscriptions(t *testing.T) {
	repo := repoMock(t)
	authors := []*models.User{{ID: 2}, {ID: 3}}

	repo.EXPECT().Following(gomock.Any(), int64(1), models.Page{Limit: 6, Offset: 6}).Return(authors, 8, nil)
	repo.EXPECT().RecentRecipes(gomock.Any(), int64(2), 2).Return([]*models.Recipe{{ID: 20}, {ID: 21}}, nil)
	repo.EXPECT().RecentRecipes(gomock.Any(), int64(3), 2).Return(nil, nil)
	repo.EXPECT().CountRecipes(gomock.Any(), int64(2)).Return(5, nil)
	repo.EXPECT().CountRecipes(gomock.Any(), int64(3)).Return(0, nil)

	got, total, err := follows.NewService(repo, 6).Subscriptions(context.Background(), 1, 2, 0, 2)
	if err != nil {
		t.Fatalf("Subscriptions() error = %v", err)
	}
	if total != 8 || len(got) != 2 {
		t.Fatalf("Subscriptions() = %d items, total %d", len(got), total)
	}
	if got[0].Author.ID != 2 || len(got[0].Recipes) != 2 || got[0].RecipesCount != 5 {
		t.Errorf("first subscription = %+v", got[0])
	}
	if got[1].Author.ID != 3 || len(got[1].Recipes) != 0 || got[1].RecipesCount != 0 {
		t.Errorf("second subscription = %+v", got[1])
	}
}
