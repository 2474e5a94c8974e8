package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ellavondegurechaff/foodgram/backend/config"
	webmodels "github.com/ellavondegurechaff/foodgram/backend/models"
	"github.com/ellavondegurechaff/foodgram/backend/utils"
	"github.com/ellavondegurechaff/foodgram/foodgram/logger"
	"github.com/ellavondegurechaff/foodgram/internal/domain/auth"
	"github.com/ellavondegurechaff/foodgram/internal/domain/catalog"
	"github.com/ellavondegurechaff/foodgram/internal/domain/collections"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/domain/follows"
	"github.com/ellavondegurechaff/foodgram/internal/domain/recipes"
	"github.com/ellavondegurechaff/foodgram/internal/domain/shopping"
	"github.com/ellavondegurechaff/foodgram/internal/domain/users"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config      *config.WebAppConfig
	DB          Pinger
	Users       *users.Service
	Auth        *auth.Service
	Recipes     *recipes.Service
	Catalog     *catalog.Service
	Collections *collections.Service
	Follows     *follows.Service
	Shopping    *shopping.Service
	Version     string
	Commit      string
}

func (w *WebApp) pageSize() int {
	if w.Config == nil {
		return 0
	}
	return w.Config.PageSize()
}

// pathID reads a positive integer route parameter.
func pathID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto HTTP statuses. Conflicts are reported
// as 400 like any other rejected input.
func respondError(c *fiber.Ctx, err error) error {
	var (
		verr *errs.ValidationError
		cerr *errs.ConflictError
		nerr *errs.NotFoundError
		ferr *errs.ForbiddenError
	)

	switch {
	case errors.As(err, &verr):
		field := verr.Field
		if field == "" {
			field = "non_field_errors"
		}
		return utils.SendBadRequest(c, verr.Error(), map[string]string{field: verr.Message})
	case errors.As(err, &cerr):
		return utils.SendError(c, fiber.StatusBadRequest, "CONFLICT", cerr.Error(), map[string]string{cerr.Field: cerr.Error()})
	case errors.As(err, &nerr):
		return utils.SendNotFound(c, nerr.Error())
	case errors.As(err, &ferr):
		return utils.SendForbidden(c, ferr.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		return utils.SendUnauthorized(c, "Invalid token.")
	case errors.Is(err, context.DeadlineExceeded):
		logger.LogError("Request timed out", err, "path", c.Path())
		return utils.SendError(c, fiber.StatusServiceUnavailable, "TIMEOUT", "The request took too long.", nil)
	}

	logger.LogError("Request failed", err,
		"method", c.Method(),
		"path", c.Path())
	return utils.SendInternalServerError(c, "Internal Server Error")
}

// HealthCheck reports the service and database status.
func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := webmodels.NewHealthCheck(webApp.Version)

		if webApp.DB == nil {
			health.AddComponent("database", "unhealthy", "not configured")
		} else {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := webApp.DB.Ping(ctx); err != nil {
				health.AddComponent("database", "unhealthy", err.Error())
			} else {
				health.AddComponent("database", "healthy", "")
			}
		}

		status := fiber.StatusOK
		if health.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return utils.SendJSON(c, status, health)
	}
}
