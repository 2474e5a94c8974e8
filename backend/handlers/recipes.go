package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/ellavondegurechaff/foodgram/backend/models"
	"github.com/ellavondegurechaff/foodgram/backend/utils"
	"github.com/ellavondegurechaff/foodgram/internal/domain/recipes"
)

// ListRecipes serves the recipe feed. Filters: author, tags (repeatable
// slug), is_favorited and is_in_shopping_cart.
func ListRecipes(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := recipes.ListQuery{
			Favorited: utils.BoolQuery(c, "is_favorited"),
			InCart:    utils.BoolQuery(c, "is_in_shopping_cart"),
			Page:      utils.IntQuery(c, "page", 1),
			Limit:     utils.IntQuery(c, "limit", 0),
		}
		if raw := c.Query("author"); raw != "" {
			author, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return utils.SendBadRequest(c, "Invalid author filter", map[string]string{"author": "must be a user id"})
			}
			q.AuthorID = author
		}
		for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
			if s := strings.TrimSpace(string(slug)); s != "" {
				q.TagSlugs = append(q.TagSlugs, s)
			}
		}

		views, total, err := webApp.Recipes.List(c.UserContext(), utils.ViewerID(c), q)
		if err != nil {
			return respondError(c, err)
		}

		window := webApp.Recipes.Page(q.Page, q.Limit)
		return utils.SendPage(c, webmodels.NewRecipeDetails(views), len(views), total, q.Page, window.Offset)
	}
}

func GetRecipe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return utils.SendNotFound(c, "recipe not found")
		}
		view, err := webApp.Recipes.Get(c.UserContext(), utils.ViewerID(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendOK(c, webmodels.NewRecipeDetail(view))
	}
}

func CreateRecipe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.RecipeRequest
		if ok, err := utils.ParseBody(c, &req); !ok {
			return err
		}

		view, err := webApp.Recipes.Create(c.UserContext(), utils.ViewerID(c), req.Input())
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendCreated(c, webmodels.NewRecipeDetail(view))
	}
}

// UpdateRecipe replaces the recipe with the submitted state, associations
// included. Only the author may do this.
func UpdateRecipe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return utils.SendNotFound(c, "recipe not found")
		}
		var req webmodels.RecipeRequest
		if ok, err := utils.ParseBody(c, &req); !ok {
			return err
		}

		view, err := webApp.Recipes.Replace(c.UserContext(), utils.ViewerID(c), id, req.Input())
		if err != nil {
			return respondError(c, err)
		}
		return utils.SendOK(c, webmodels.NewRecipeDetail(view))
	}
}

func DeleteRecipe(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return utils.SendNotFound(c, "recipe not found")
		}
		if err := webApp.Recipes.Delete(c.UserContext(), utils.ViewerID(c), id); err != nil {
			return respondError(c, err)
		}
		return utils.SendNoContent(c)
	}
}
