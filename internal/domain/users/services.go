package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const minPasswordLength = 8

type RegisterInput struct {
	Email     string `validate:"required,email,max=254"`
	Username  string `validate:"required,max=150"`
	FirstName string `validate:"required,max=150"`
	LastName  string `validate:"required,max=150"`
	Password  string `validate:"required"`
}

// View is a user as seen by a viewer.
type View struct {
	User         *models.User
	IsSubscribed bool
}

type Service struct {
	repository Repository
	validate   *validator.Validate
	cost       int
	pageSize   int
}

func NewService(repository Repository, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	return &Service{
		repository: repository,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		cost:       bcrypt.DefaultCost,
		pageSize:   pageSize,
	}
}

// WithCost overrides the bcrypt cost.
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	if err := s.validate.Struct(in); err != nil {
		return nil, fieldError(err)
	}
	if !usernamePattern.MatchString(in.Username) {
		return nil, errs.Validation("username", "may contain only letters, digits and @/./+/-/_")
	}
	if strings.EqualFold(in.Username, "me") {
		return nil, errs.Validation("username", "%q is reserved", in.Username)
	}
	if err := checkPassword("password", in.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	}
	if err := s.repository.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// Authenticate resolves credentials to a user. Unknown emails and wrong
// passwords produce the same validation error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalid := errs.Validation("credentials", "unable to log in with provided credentials")

	user, err := s.repository.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if errs.IsNotFound(err) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

func (s *Service) SetPassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.repository.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return errs.Validation("current_password", "is incorrect")
	}
	if err := checkPassword("new_password", next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repository.UpdatePassword(ctx, userID, string(hash))
}

// checkPassword bounds a password in bytes, the unit bcrypt limits.
func checkPassword(field, password string) error {
	if len(password) < minPasswordLength || len(password) > config.MaxPasswordLength {
		return errs.Validation(field, "must be between %d and %d bytes", minPasswordLength, config.MaxPasswordLength)
	}
	return nil
}

// Get loads a user as seen by viewerID. Zero means anonymous.
func (s *Service) Get(ctx context.Context, viewerID, userID int64) (*View, error) {
	user, err := s.repository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, viewerID, []*models.User{user})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) List(ctx context.Context, viewerID int64, page, limit int) ([]*View, int, error) {
	found, total, err := s.repository.List(ctx, models.Paginate(page, limit, s.pageSize, config.MaxPageSize))
	if err != nil {
		return nil, 0, err
	}
	views, err := s.decorate(ctx, viewerID, found)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *Service) decorate(ctx context.Context, viewerID int64, found []*models.User) ([]*View, error) {
	views := make([]*View, len(found))
	ids := make([]int64, len(found))
	for i, user := range found {
		views[i] = &View{User: user}
		ids[i] = user.ID
	}
	if viewerID == 0 || len(found) == 0 {
		return views, nil
	}

	subscribed, err := s.repository.SubscribedTo(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	for _, view := range views {
		view.IsSubscribed = subscribed[view.User.ID]
	}
	return views, nil
}

func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := toSnake(fe.Field())
		switch fe.Tag() {
		case "required":
			return errs.Validation(field, "is required")
		case "email":
			return errs.Validation(field, "must be a valid email address")
		case "max":
			return errs.Validation(field, "must be at most %s characters", fe.Param())
		case "min":
			return errs.Validation(field, "must be at least %s characters", fe.Param())
		}
		return errs.Validation(field, "is invalid")
	}
	return errs.Validation("", "%v", err)
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
