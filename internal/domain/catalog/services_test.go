package catalog

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/ellavondegurechaff/foodgram/internal/domain/catalog/mock"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

var pantry = []*models.Ingredient{
	{ID: 1, Name: "Flour", MeasurementUnit: "g"},
	{ID: 2, Name: "Salt", MeasurementUnit: "g"},
	{ID: 3, Name: "Sugar", MeasurementUnit: "g"},
	{ID: 4, Name: "Butter", MeasurementUnit: "g"},
}

func names(items []*models.Ingredient) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func Test_service_ListIngredients(t *testing.T) {
	t.Run("empty query lists everything", func(t *testing.T) {
		repo := mock.NewMockRepository(gomock.NewController(t))
		repo.EXPECT().AllIngredients(gomock.Any()).Return(pantry, nil)

		got, err := NewService(repo).ListIngredients(context.Background(), "  ")
		if err != nil || len(got) != 4 {
			t.Fatalf("ListIngredients() = %v, %v", names(got), err)
		}
	})

	t.Run("prefix match wins", func(t *testing.T) {
		repo := mock.NewMockRepository(gomock.NewController(t))
		repo.EXPECT().SearchIngredients(gomock.Any(), "su").Return(pantry[2:3], nil)

		got, err := NewService(repo).ListIngredients(context.Background(), "su")
		if err != nil || len(got) != 1 || got[0].Name != "Sugar" {
			t.Fatalf("ListIngredients() = %v, %v", names(got), err)
		}
	})

	t.Run("fuzzy fallback", func(t *testing.T) {
		repo := mock.NewMockRepository(gomock.NewController(t))
		repo.EXPECT().SearchIngredients(gomock.Any(), "btr").Return(nil, nil)
		repo.EXPECT().AllIngredients(gomock.Any()).Return(pantry, nil)

		got, err := NewService(repo).ListIngredients(context.Background(), "btr")
		if err != nil {
			t.Fatalf("ListIngredients() error = %v", err)
		}
		if len(got) != 1 || got[0].Name != "Butter" {
			t.Errorf("ListIngredients() = %v, want [Butter]", names(got))
		}
	})
}

func Test_service_ImportTags(t *testing.T) {
	tests := []struct {
		name    string
		tag     models.Tag
		wantErr bool
	}{
		{name: "valid", tag: models.Tag{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}},
		{name: "short color", tag: models.Tag{Name: "Lunch", Color: "#fff", Slug: "lunch"}},
		{name: "bad color", tag: models.Tag{Name: "Dinner", Color: "red", Slug: "dinner"}, wantErr: true},
		{name: "bad slug", tag: models.Tag{Name: "Dinner", Color: "#000000", Slug: "din ner"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			tag := tt.tag
			if !tt.wantErr {
				repo.EXPECT().InsertTags(gomock.Any(), []*models.Tag{&tag}).Return(1, nil)
			}

			_, err := NewService(repo).ImportTags(context.Background(), []*models.Tag{&tag})
			if tt.wantErr != errs.IsValidation(err) {
				t.Fatalf("ImportTags() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_service_ImportIngredients_Batches(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	s := NewService(repo)
	s.batchSize = 2

	items := []*models.Ingredient{
		{Name: "Flour", MeasurementUnit: "g"},
		{Name: "Flour", MeasurementUnit: "g"},
		{Name: " Salt ", MeasurementUnit: "g"},
		{Name: "", MeasurementUnit: "g"},
		{Name: "Milk", MeasurementUnit: "ml"},
	}

	gomock.InOrder(
		repo.EXPECT().InsertIngredients(gomock.Any(), gomock.Len(2)).Return(2, nil),
		repo.EXPECT().InsertIngredients(gomock.Any(), gomock.Len(1)).Return(0, nil),
	)

	created, err := s.ImportIngredients(context.Background(), items)
	if err != nil {
		t.Fatalf("ImportIngredients() error = %v", err)
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}
	if items[2].Name != "Salt" {
		t.Errorf("name not trimmed: %q", items[2].Name)
	}
}
