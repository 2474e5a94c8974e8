package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/ellavondegurechaff/foodgram/internal/domain/users"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

type userRepository struct {
	BaseRepository
}

var _ users.Repository = &userRepository{}

func NewUserRepository(db bun.IDB) *userRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(user).
		Returning("id").
		Exec(ctx)
	return r.HandleError("create", "user", nil, err)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
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

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("lower(u.email) = lower(?)", email).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_by_email", "user", nil, err)
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context, page models.Page) ([]*models.User, int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var found []*models.User
	total, err := r.db.NewSelect().
		Model(&found).
		Order("u.id ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, r.HandleError("list", "user", nil, err)
	}
	return found, total, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("password_hash = ?", hash).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.HandleError("update_password", "user", id, err)
	}
	return requireAffected(res, "user", id)
}

func (r *userRepository) SubscribedTo(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error) {
	return r.memberIDs(ctx, "follows", "following_id", viewerID, userIDs)
}
