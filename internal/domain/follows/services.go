package follows

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

// Subscription is a followed author with a preview of their newest recipes.
type Subscription struct {
	Author       *models.User
	Recipes      []*models.Recipe
	RecipesCount int
}

type Service struct {
	repository Repository
	pageSize   int
}

func NewService(repository Repository, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	return &Service{repository: repository, pageSize: pageSize}
}

// Follow creates the follower -> target edge.
func (s *Service) Follow(ctx context.Context, followerID, targetID int64) (*models.Follow, error) {
	if followerID == targetID {
		return nil, errs.Validation("author", "cannot follow yourself")
	}

	follow := &models.Follow{UserID: followerID, FollowingID: targetID}
	err := s.repository.InTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := repo.UserByID(ctx, targetID); err != nil {
			return err
		}

		exists, err := repo.Exists(ctx, followerID, targetID)
		if err != nil {
			return err
		}
		if exists {
			return errs.Conflict("subscription", "author", targetID)
		}
		return repo.Insert(ctx, follow)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Author followed", slog.Int64("user_id", followerID), slog.Int64("following_id", targetID))
	return follow, nil
}

// Unfollow removes the follower -> target edge.
func (s *Service) Unfollow(ctx context.Context, followerID, targetID int64) error {
	return s.repository.InTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := repo.UserByID(ctx, targetID); err != nil {
			return err
		}

		exists, err := repo.Exists(ctx, followerID, targetID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NotFound("subscription", targetID)
		}
		return repo.Delete(ctx, followerID, targetID)
	})
}

// Describe builds the subscription view of one author.
func (s *Service) Describe(ctx context.Context, authorID int64, recipesLimit int) (*Subscription, error) {
	author, err := s.repository.UserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	sub := &Subscription{Author: author}
	if err := s.fill(ctx, sub, recipesLimit); err != nil {
		return nil, err
	}
	return sub, nil
}

// Subscriptions lists the authors userID follows, each with up to
// recipesLimit of their newest recipes. A non-positive limit disables the cap.
func (s *Service) Subscriptions(ctx context.Context, userID int64, page, limit, recipesLimit int) ([]*Subscription, int, error) {
	authors, total, err := s.repository.Following(ctx, userID, models.Paginate(page, limit, s.pageSize, config.MaxPageSize))
	if err != nil {
		return nil, 0, err
	}

	subs := make([]*Subscription, len(authors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, author := range authors {
		subs[i] = &Subscription{Author: author}
		sub := subs[i]
		g.Go(func() error {
			return s.fill(gctx, sub, recipesLimit)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to load subscription recipes: %w", err)
	}
	return subs, total, nil
}

func (s *Service) fill(ctx context.Context, sub *Subscription, recipesLimit int) error {
	recipes, err := s.repository.RecentRecipes(ctx, sub.Author.ID, recipesLimit)
	if err != nil {
		return err
	}
	count, err := s.repository.CountRecipes(ctx, sub.Author.ID)
	if err != nil {
		return err
	}
	sub.Recipes = recipes
	sub.RecipesCount = count
	return nil
}
