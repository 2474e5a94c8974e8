// Package auth issues and revokes bearer tokens. Tokens are signed JWTs whose
// id is also stored, so logging out deletes the row and the token stops
// verifying before it expires.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

type Service struct {
	repository Repository
	users      Authenticator
	secret     []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewService(repository Repository, users Authenticator, secret string, ttl time.Duration) *Service {
	return &Service{
		repository: repository,
		users:      users,
		secret:     []byte(secret),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Login checks the credentials and issues a new token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	now := s.now()
	record := &models.AuthToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repository.InsertToken(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        record.ID,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(record.ExpiresAt),
		},
		UserID: user.ID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	slog.Info("Token issued", slog.Int64("user_id", user.ID))
	return signed, nil
}

// Verify parses a token and checks that it has not been revoked.
func (s *Service) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	active, err := s.repository.TokenActive(ctx, claims.ID, s.now())
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Logout revokes the token the claims were read from.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if err := s.repository.DeleteToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	slog.Info("Token revoked", slog.Int64("user_id", claims.UserID))
	return nil
}
