package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/ellavondegurechaff/foodgram/backend/models"
	"github.com/ellavondegurechaff/foodgram/backend/utils"
)

func Login(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.LoginRequest
		if ok, err := utils.ParseBody(c, &req); !ok {
			return err
		}

		token, err := webApp.Auth.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendOK(c, webmodels.TokenResponse{AuthToken: token})
	}
}

func Logout(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := utils.ExtractClaims(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication credentials were not provided.")
		}
		if err := webApp.Auth.Logout(c.UserContext(), claims); err != nil {
			return respondError(c, err)
		}
		return utils.SendNoContent(c)
	}
}
