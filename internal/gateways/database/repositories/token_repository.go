package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/ellavondegurechaff/foodgram/internal/domain/auth"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

type tokenRepository struct {
	BaseRepository
}

var _ auth.Repository = &tokenRepository{}

func NewTokenRepository(db bun.IDB) *tokenRepository {
	return &tokenRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *tokenRepository) InsertToken(ctx context.Context, token *models.AuthToken) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	token.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(token).Exec(ctx)
	return r.HandleError("insert", "token", token.ID, err)
}

func (r *tokenRepository) TokenActive(ctx context.Context, id string, now time.Time) (bool, error) {
	q := r.db.NewSelect().
		Model((*models.AuthToken)(nil)).
		Where("id = ?", id).
		Where("expires_at > ?", now)
	return r.Exists(ctx, "token", q)
}

// DeleteToken is idempotent; revoking an unknown token is not an error.
func (r *tokenRepository) DeleteToken(ctx context.Context, id string) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.AuthToken)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return r.HandleError("delete", "token", id, err)
}

// PurgeExpired drops tokens that expired before now and reports how many.
func (r *tokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.AuthToken)(nil)).
		Where("expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, r.HandleError("purge", "token", nil, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
