package repositories

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/ellavondegurechaff/foodgram/internal/domain/shopping"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

type shoppingRepository struct {
	BaseRepository
}

var _ shopping.Repository = &shoppingRepository{}

func NewShoppingRepository(db bun.IDB) *shoppingRepository {
	return &shoppingRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *shoppingRepository) Aggregate(ctx context.Context, userID int64) ([]models.ShoppingLine, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var lines []models.ShoppingLine
	err := r.db.NewSelect().
		TableExpr("shopping_cart AS sc").
		Join("JOIN recipe_ingredients AS ri ON ri.recipe_id = sc.recipe_id").
		Join("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		ColumnExpr("i.id AS ingredient_id").
		ColumnExpr("i.name AS name").
		ColumnExpr("i.measurement_unit AS measurement_unit").
		ColumnExpr("SUM(ri.amount) AS total").
		Where("sc.user_id = ?", userID).
		GroupExpr("i.id, i.name, i.measurement_unit").
		OrderExpr("i.id ASC").
		Scan(ctx, &lines)
	if err != nil {
		return nil, r.HandleError("aggregate", "shopping list", userID, err)
	}
	return lines, nil
}
