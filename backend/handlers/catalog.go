package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/ellavondegurechaff/foodgram/backend/models"
	"github.com/ellavondegurechaff/foodgram/backend/utils"
)

func ListTags(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := webApp.Catalog.ListTags(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendOK(c, webmodels.NewTagDTOs(tags))
	}
}

func GetTag(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return utils.SendNotFound(c, "tag not found")
		}
		tag, err := webApp.Catalog.GetTag(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendOK(c, webmodels.NewTagDTO(tag))
	}
}

// ListIngredients searches by name prefix with the name query parameter.
func ListIngredients(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		found, err := webApp.Catalog.ListIngredients(c.UserContext(), c.Query("name"))
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendOK(c, webmodels.NewIngredientDTOs(found))
	}
}

func GetIngredient(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return utils.SendNotFound(c, "ingredient not found")
		}
		ingredient, err := webApp.Catalog.GetIngredient(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendOK(c, webmodels.NewIngredientDTO(ingredient))
	}
}
