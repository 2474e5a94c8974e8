package migration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JSONTag is one entry of tag.json.
type JSONTag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// JSONIngredient is one entry of ingredients.json.
type JSONIngredient struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// LegacyRecipe is a recipe document of the old Mongo store. Only the
// ingredient lines are read.
type LegacyRecipe struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Ingredients []LegacyIngredient `bson:"ingredients"`
}

type LegacyIngredient struct {
	Name   string  `bson:"name"`
	Unit   string  `bson:"unit"`
	Amount float64 `bson:"amount"`
}

// ImportStats summarises one import run.
type ImportStats struct {
	Sources   map[string]*SourceStats `json:"sources"`
	StartTime time.Time               `json:"start_time"`
	EndTime   time.Time               `json:"end_time"`
}

// SourceStats counts what one source contributed.
type SourceStats struct {
	Source   string `json:"source"`
	Received int    `json:"received"`
	Created  int    `json:"created"`
}

func (s *ImportStats) record(source string, received, created int) {
	if s.Sources == nil {
		s.Sources = make(map[string]*SourceStats)
	}
	s.Sources[source] = &SourceStats{Source: source, Received: received, Created: created}
}
