// Package catalog serves the read-mostly tag and ingredient dictionaries
// and loads them in bulk.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

var (
	colorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

type Service struct {
	repository Repository
	batchSize  int
}

func NewService(repository Repository) *Service {
	return &Service{repository: repository, batchSize: config.ImportBatchSize}
}

func (s *Service) ListTags(ctx context.Context) ([]*models.Tag, error) {
	return s.repository.ListTags(ctx)
}

func (s *Service) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	return s.repository.GetTag(ctx, id)
}

func (s *Service) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	return s.repository.GetIngredient(ctx, id)
}

// ListIngredients returns the whole catalogue for an empty query, prefix
// matches otherwise. When nothing starts with the query the closest fuzzy
// matches are returned instead.
func (s *Service) ListIngredients(ctx context.Context, name string) ([]*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.repository.AllIngredients(ctx)
	}

	found, err := s.repository.SearchIngredients(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return found, nil
	}

	all, err := s.repository.AllIngredients(ctx)
	if err != nil {
		return nil, err
	}
	matches := fuzzy.FindFrom(strings.ToLower(name), ingredientSource(all))
	if len(matches) > config.IngredientSearchMax {
		matches = matches[:config.IngredientSearchMax]
	}

	result := make([]*models.Ingredient, len(matches))
	for i, m := range matches {
		result[i] = all[m.Index]
	}
	return result, nil
}

// ingredientSource adapts a slice of ingredients to fuzzy.Source.
type ingredientSource []*models.Ingredient

func (s ingredientSource) String(i int) string { return strings.ToLower(s[i].Name) }
func (s ingredientSource) Len() int            { return len(s) }

func (s *Service) ImportTags(ctx context.Context, tags []*models.Tag) (int, error) {
	for i, tag := range tags {
		tag.Name = strings.TrimSpace(tag.Name)
		switch {
		case tag.Name == "" || len(tag.Name) > config.MaxTagNameLength:
			return 0, errs.Validation("name", "tag #%d has an invalid name", i+1)
		case !colorPattern.MatchString(tag.Color):
			return 0, errs.Validation("color", "tag %q has invalid color %q", tag.Name, tag.Color)
		case !slugPattern.MatchString(tag.Slug):
			return 0, errs.Validation("slug", "tag %q has invalid slug %q", tag.Name, tag.Slug)
		}
	}

	created, err := s.repository.InsertTags(ctx, tags)
	if err != nil {
		return 0, fmt.Errorf("failed to import tags: %w", err)
	}
	slog.Info("Tags imported", slog.Int("received", len(tags)), slog.Int("created", created))
	return created, nil
}

// ImportIngredients loads ingredients in batches. Entries with a blank name
// or unit are skipped.
func (s *Service) ImportIngredients(ctx context.Context, items []*models.Ingredient) (int, error) {
	valid := make([]*models.Ingredient, 0, len(items))
	seen := make(map[[2]string]struct{}, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		item.MeasurementUnit = strings.TrimSpace(item.MeasurementUnit)
		if item.Name == "" || item.MeasurementUnit == "" {
			continue
		}
		key := [2]string{item.Name, item.MeasurementUnit}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		valid = append(valid, item)
	}

	created := 0
	for start := 0; start < len(valid); start += s.batchSize {
		end := min(start+s.batchSize, len(valid))
		n, err := s.repository.InsertIngredients(ctx, valid[start:end])
		if err != nil {
			return created, fmt.Errorf("failed to import ingredients %d-%d: %w", start, end, err)
		}
		created += n
	}

	slog.Info("Ingredients imported",
		slog.Int("received", len(items)),
		slog.Int("skipped", len(items)-len(valid)),
		slog.Int("created", created))
	return created, nil
}
