package models

import (
	"github.com/ellavondegurechaff/foodgram/internal/domain/follows"
	"github.com/ellavondegurechaff/foodgram/internal/domain/recipes"
	"github.com/ellavondegurechaff/foodgram/internal/domain/users"
	dbmodels "github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

// Requests

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

type RecipeIngredientRequest struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount"`
}

// RecipeRequest is the body of both create and update. Bounds are checked by
// the recipe writer; only the shape is validated here.
type RecipeRequest struct {
	Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,dive"`
	Tags        []int64                   `json:"tags" validate:"required"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" validate:"required"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int                       `json:"cooking_time"`
}

func (r RecipeRequest) Input() recipes.Input {
	items := make([]recipes.IngredientAmount, len(r.Ingredients))
	for i, item := range r.Ingredients {
		items[i] = recipes.IngredientAmount{ID: item.ID, Amount: item.Amount}
	}
	return recipes.Input{
		Name:        r.Name,
		Text:        r.Text,
		Image:       r.Image,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
		Ingredients: items,
	}
}

// Responses

type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

type UserDTO struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type TagDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientDTO struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// RecipeIngredientDTO is an ingredient line of a recipe. ID is the
// ingredient's id.
type RecipeIngredientDTO struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeDetail struct {
	ID               int64                 `json:"id"`
	Tags             []TagDTO              `json:"tags"`
	Author           UserDTO               `json:"author"`
	Ingredients      []RecipeIngredientDTO `json:"ingredients"`
	IsFavorited      bool                  `json:"is_favorited"`
	IsInShoppingCart bool                  `json:"is_in_shopping_cart"`
	Name             string                `json:"name"`
	Image            string                `json:"image"`
	Text             string                `json:"text"`
	CookingTime      int                   `json:"cooking_time"`
}

// RecipeSummary is the short form used in collections and subscriptions.
type RecipeSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type SubscriptionDTO struct {
	UserDTO
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int             `json:"recipes_count"`
}

func NewUserDTO(user *dbmodels.User, subscribed bool) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

func NewUserDTOs(views []*users.View) []UserDTO {
	out := make([]UserDTO, len(views))
	for i, v := range views {
		out[i] = NewUserDTO(v.User, v.IsSubscribed)
	}
	return out
}

func NewTagDTO(tag *dbmodels.Tag) TagDTO {
	return TagDTO{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
}

func NewTagDTOs(tags []*dbmodels.Tag) []TagDTO {
	out := make([]TagDTO, len(tags))
	for i, t := range tags {
		out[i] = NewTagDTO(t)
	}
	return out
}

func NewIngredientDTO(ingredient *dbmodels.Ingredient) IngredientDTO {
	return IngredientDTO{ID: ingredient.ID, Name: ingredient.Name, MeasurementUnit: ingredient.MeasurementUnit}
}

func NewIngredientDTOs(items []*dbmodels.Ingredient) []IngredientDTO {
	out := make([]IngredientDTO, len(items))
	for i, item := range items {
		out[i] = NewIngredientDTO(item)
	}
	return out
}

func NewRecipeDetail(view *recipes.View) RecipeDetail {
	r := view.Recipe
	detail := RecipeDetail{
		ID:               r.ID,
		Tags:             NewTagDTOs(r.Tags),
		Author:           NewUserDTO(r.Author, view.AuthorSubscribed),
		Ingredients:      make([]RecipeIngredientDTO, 0, len(r.Ingredients)),
		IsFavorited:      view.IsFavorited,
		IsInShoppingCart: view.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	for _, line := range r.Ingredients {
		item := RecipeIngredientDTO{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		detail.Ingredients = append(detail.Ingredients, item)
	}
	return detail
}

func NewRecipeDetails(views []*recipes.View) []RecipeDetail {
	out := make([]RecipeDetail, len(views))
	for i, v := range views {
		out[i] = NewRecipeDetail(v)
	}
	return out
}

func NewRecipeSummary(r *dbmodels.Recipe) RecipeSummary {
	return RecipeSummary{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// NewSubscriptionDTO describes an author the viewer follows.
func NewSubscriptionDTO(sub *follows.Subscription) SubscriptionDTO {
	dto := SubscriptionDTO{
		UserDTO:      NewUserDTO(sub.Author, true),
		Recipes:      make([]RecipeSummary, len(sub.Recipes)),
		RecipesCount: sub.RecipesCount,
	}
	for i, r := range sub.Recipes {
		dto.Recipes[i] = NewRecipeSummary(r)
	}
	return dto
}

func NewSubscriptionDTOs(subs []*follows.Subscription) []SubscriptionDTO {
	out := make([]SubscriptionDTO, len(subs))
	for i, s := range subs {
		out[i] = NewSubscriptionDTO(s)
	}
	return out
}
