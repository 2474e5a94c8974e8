package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/ellavondegurechaff/foodgram/backend/models"
	"github.com/ellavondegurechaff/foodgram/backend/utils"
	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/domain/users"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

func RegisterUser(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.RegisterRequest
		if ok, err := utils.ParseBody(c, &req); !ok {
			return err
		}

		user, err := webApp.Users.Register(c.UserContext(), users.RegisterInput{
			Email:     req.Email,
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  req.Password,
		})
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendCreated(c, webmodels.NewUserDTO(user, false))
	}
}

func ListUsers(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := utils.IntQuery(c, "page", 1)
		limit := utils.IntQuery(c, "limit", 0)

		views, total, err := webApp.Users.List(c.UserContext(), utils.ViewerID(c), page, limit)
		if err != nil {
			return respondError(c, err)
		}

		window := models.Paginate(page, limit, webApp.pageSize(), config.MaxPageSize)
		return utils.SendPage(c, webmodels.NewUserDTOs(views), len(views), total, page, window.Offset)
	}
}

func GetUser(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return utils.SendNotFound(c, "user not found")
		}

		view, err := webApp.Users.Get(c.UserContext(), utils.ViewerID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendOK(c, webmodels.NewUserDTO(view.User, view.IsSubscribed))
	}
}

func CurrentUser(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := utils.ViewerID(c)
		view, err := webApp.Users.Get(c.UserContext(), viewer, viewer)
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendOK(c, webmodels.NewUserDTO(view.User, false))
	}
}

func SetPassword(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.SetPasswordRequest
		if ok, err := utils.ParseBody(c, &req); !ok {
			return err
		}

		if err := webApp.Users.SetPassword(c.UserContext(), utils.ViewerID(c), req.CurrentPassword, req.NewPassword); err != nil {
			return respondError(c, err)
		}
		return utils.SendNoContent(c)
	}
}
