package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/ellavondegurechaff/foodgram/internal/domain/follows"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

type followRepository struct {
	BaseRepository
}

var _ follows.Repository = &followRepository{}

func NewFollowRepository(db bun.IDB) *followRepository {
	return &followRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *followRepository) InTx(ctx context.Context, fn func(ctx context.Context, repo follows.Repository) error) error {
	return r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &followRepository{BaseRepository: r.bind(tx)})
	})
}

func (r *followRepository) UserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get", "user", id, err)
	}
	return user, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, targetID int64) (bool, error) {
	q := r.db.NewSelect().
		Model((*models.Follow)(nil)).
		Where("user_id = ? AND following_id = ?", followerID, targetID)
	return r.BaseRepository.Exists(ctx, "subscription", q)
}

func (r *followRepository) Insert(ctx context.Context, follow *models.Follow) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	follow.CreatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(follow).
		Returning("id").
		Exec(ctx)
	return r.HandleError("insert", "subscription", follow.FollowingID, err)
}

func (r *followRepository) Delete(ctx context.Context, followerID, targetID int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Follow)(nil)).
		Where("user_id = ? AND following_id = ?", followerID, targetID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("delete", "subscription", targetID, err)
	}
	return requireAffected(res, "subscription", targetID)
}

// Following lists the authors userID follows in the order they were followed.
func (r *followRepository) Following(ctx context.Context, userID int64, page models.Page) ([]*models.User, int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var authors []*models.User
	total, err := r.db.NewSelect().
		Model(&authors).
		Join("JOIN follows AS f ON f.following_id = u.id").
		Where("f.user_id = ?", userID).
		OrderExpr("f.id ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, r.HandleError("list", "subscription", userID, err)
	}
	return authors, total, nil
}

// RecentRecipes returns the author's newest recipes. A non-positive limit
// returns all of them.
func (r *followRepository) RecentRecipes(ctx context.Context, authorID int64, limit int) ([]*models.Recipe, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var found []*models.Recipe
	q := r.db.NewSelect().
		Model(&found).
		Where("r.author_id = ?", authorID).
		Order("r.created_at DESC", "r.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, r.HandleError("recent_recipes", "recipe", authorID, err)
	}
	return found, nil
}

func (r *followRepository) CountRecipes(ctx context.Context, authorID int64) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.db.NewSelect().
		Model((*models.Recipe)(nil)).
		Where("author_id = ?", authorID).
		Count(ctx)
	return count, r.HandleError("count", "recipe", authorID, err)
}
