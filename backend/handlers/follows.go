package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/ellavondegurechaff/foodgram/backend/models"
	"github.com/ellavondegurechaff/foodgram/backend/utils"
	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

// recipesLimit reads recipes_limit. Absent means the default preview size,
// zero means every recipe.
func recipesLimit(c *fiber.Ctx) int {
	return utils.IntQuery(c, "recipes_limit", config.DefaultRecipesLimit)
}

func Subscribe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return utils.SendNotFound(c, "user not found")
		}

		if _, err := webApp.Follows.Follow(c.UserContext(), utils.ViewerID(c), id); err != nil {
			return respondError(c, err)
		}
		sub, err := webApp.Follows.Describe(c.UserContext(), id, recipesLimit(c))
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendCreated(c, webmodels.NewSubscriptionDTO(sub))
	}
}

func Unsubscribe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return utils.SendNotFound(c, "user not found")
		}
		if err := webApp.Follows.Unfollow(c.UserContext(), utils.ViewerID(c), id); err != nil {
			return respondError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

func Subscriptions(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := utils.IntQuery(c, "page", 1)
		limit := utils.IntQuery(c, "limit", 0)

		subs, total, err := webApp.Follows.Subscriptions(c.UserContext(), utils.ViewerID(c), page, limit, recipesLimit(c))
		if err != nil {
			return respondError(c, err)
		}

		window := models.Paginate(page, limit, webApp.pageSize(), config.MaxPageSize)
		return utils.SendPage(c, webmodels.NewSubscriptionDTOs(subs), len(subs), total, page, window.Offset)
	}
}
