package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/ellavondegurechaff/foodgram/backend/models"
	"github.com/ellavondegurechaff/foodgram/backend/utils"
	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/domain/collections"
)

// AddToCollection handles POST on /recipes/:id/favorite/ and
// /recipes/:id/shopping_cart/.
func AddToCollection(webApp *WebApp, kind collections.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return utils.SendNotFound(c, "recipe not found")
		}
		recipe, err := webApp.Collections.Add(c.UserContext(), kind, utils.ViewerID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendCreated(c, webmodels.NewRecipeSummary(recipe))
	}
}

func RemoveFromCollection(webApp *WebApp, kind collections.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return utils.SendNotFound(c, "recipe not found")
		}
		if err := webApp.Collections.Remove(c.UserContext(), kind, utils.ViewerID(c), id); err != nil {
			return respondError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

// DownloadShoppingCart sends the aggregated shopping list as a text file.
func DownloadShoppingCart(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := webApp.Shopping.Download(c.UserContext(), utils.ViewerID(c))
		if err != nil {
			return respondError(c, err)
		}
		c.Attachment(config.ShoppingListFilename)
		c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
		return c.Status(fiber.StatusOK).Send(body)
	}
}
