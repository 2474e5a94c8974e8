package models

import "github.com/uptrace/bun"

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Name  string `bun:"name,notnull,unique"`
	Color string `bun:"color,notnull,unique"`
	Slug  string `bun:"slug,notnull,unique"`
}

type Ingredient struct {
	bun.BaseModel `bun:"table:ingredients,alias:i"`

	ID              int64  `bun:"id,pk,autoincrement"`
	Name            string `bun:"name,notnull,unique:ingredient_name_unit"`
	MeasurementUnit string `bun:"measurement_unit,notnull,unique:ingredient_name_unit"`
}
