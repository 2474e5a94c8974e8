package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/ellavondegurechaff/foodgram/internal/domain/auth/mock"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

func newTestService(t *testing.T) (*Service, *mock.MockRepository, *mock.MockAuthenticator) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	users := mock.NewMockAuthenticator(ctrl)
	return NewService(repo, users, "test-secret", time.Hour), repo, users
}

func TestService_LoginVerifyLogout(t *testing.T) {
	s, repo, users := newTestService(t)
	ctx := context.Background()

	var stored *models.AuthToken
	users.EXPECT().Authenticate(gomock.Any(), "cook@example.com", "pw").Return(&models.User{ID: 5}, nil)
	repo.EXPECT().InsertToken(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tok *models.AuthToken) error {
		stored = tok
		return nil
	})

	token, err := s.Login(ctx, "cook@example.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if stored == nil || stored.UserID != 5 {
		t.Fatalf("stored token = %+v", stored)
	}

	repo.EXPECT().TokenActive(gomock.Any(), stored.ID, gomock.Any()).Return(true, nil)
	claims, err := s.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 5 || claims.ID != stored.ID {
		t.Errorf("claims = %+v", claims)
	}

	repo.EXPECT().DeleteToken(gomock.Any(), stored.ID).Return(nil)
	if err := s.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	repo.EXPECT().TokenActive(gomock.Any(), stored.ID, gomock.Any()).Return(false, nil)
	if _, err := s.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify() after logout = %v, want ErrInvalidToken", err)
	}
}

func TestService_Verify_Rejects(t *testing.T) {
	s, repo, users := newTestService(t)
	ctx := context.Background()

	users.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(&models.User{ID: 5}, nil)
	repo.EXPECT().InsertToken(gomock.Any(), gomock.Any()).Return(nil)
	token, err := s.Login(ctx, "cook@example.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	other := NewService(repo, users, "another-secret", time.Hour)
	if _, err := other.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() with wrong secret = %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := s.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() of expired token = %v", err)
	}

	if _, err := s.Verify(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() of garbage = %v", err)
	}
}

func TestService_Login_BadCredentials(t *testing.T) {
	s, _, users := newTestService(t)
	users.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errs.Validation("credentials", "unable to log in"))

	if _, err := s.Login(context.Background(), "x", "y"); !errs.IsValidation(err) {
		t.Fatalf("Login() error = %v, want ValidationError", err)
	}
}
