package recipes

import "github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"

// Limits are the bounds the writer enforces. They come from the [recipes]
// config section.
type Limits struct {
	CookingTimeMin int
	CookingTimeMax int
	AmountMin      int
	AmountMax      int
	PageSize       int
}

type IngredientAmount struct {
	ID     int64
	Amount int
}

// Input is the full desired state of a recipe. Replace applies it as is,
// associations included.
type Input struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []int64
	Ingredients []IngredientAmount
}

// View is a recipe together with the markers computed for one viewer.
type View struct {
	Recipe           *models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

type ListQuery struct {
	AuthorID  int64
	TagSlugs  []string
	Favorited bool
	InCart    bool
	Page      int
	Limit     int
}
