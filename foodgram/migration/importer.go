// Package migration loads the tag and ingredient catalogue from JSON fixtures
// and from a legacy Mongo recipe store.
package migration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

// Catalog is the write side of the catalogue the importer feeds.
type Catalog interface {
	ImportTags(ctx context.Context, tags []*models.Tag) (int, error)
	ImportIngredients(ctx context.Context, items []*models.Ingredient) (int, error)
}

// Cursor is the part of a Mongo cursor the importer reads from.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

type Importer struct {
	catalog    Catalog
	mongoDB    *mongo.Database
	collection string

	mu    sync.Mutex
	stats ImportStats
}

func NewImporter(catalog Catalog) *Importer {
	return &Importer{
		catalog:    catalog,
		collection: "recipes",
		stats:      ImportStats{StartTime: time.Now()},
	}
}

// UseMongo enables the legacy recipe source.
func (im *Importer) UseMongo(client *mongo.Client, dbName, collection string) {
	if client != nil && dbName != "" {
		im.mongoDB = client.Database(dbName)
	}
	if collection != "" {
		im.collection = collection
	}
}

// Stats returns a snapshot of what has been imported so far.
func (im *Importer) Stats() ImportStats {
	im.mu.Lock()
	defer im.mu.Unlock()

	snapshot := im.stats
	snapshot.Sources = make(map[string]*SourceStats, len(im.stats.Sources))
	for k, v := range im.stats.Sources {
		copied := *v
		snapshot.Sources[k] = &copied
	}
	return snapshot
}

func (im *Importer) record(source string, received, created int) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.stats.record(source, received, created)
}

// ImportAll loads every configured source. Empty paths are skipped. The JSON
// files load concurrently; the Mongo harvest runs afterwards so fixture units
// win for duplicate names.
func (im *Importer) ImportAll(ctx context.Context, tagsPath, ingredientsPath string) (ImportStats, error) {
	g, gctx := errgroup.WithContext(ctx)
	if tagsPath != "" {
		g.Go(func() error {
			_, err := im.ImportTagsFromJSON(gctx, tagsPath)
			return err
		})
	}
	if ingredientsPath != "" {
		g.Go(func() error {
			_, err := im.ImportIngredientsFromJSON(gctx, ingredientsPath)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return im.Stats(), err
	}

	if im.mongoDB != nil {
		if _, err := im.ImportIngredientsFromMongo(ctx); err != nil {
			return im.Stats(), err
		}
	}

	im.mu.Lock()
	im.stats.EndTime = time.Now()
	im.mu.Unlock()

	stats := im.Stats()
	for _, s := range stats.Sources {
		slog.Info("Import source finished",
			slog.String("source", s.Source),
			slog.Int("received", s.Received),
			slog.Int("created", s.Created))
	}
	return stats, nil
}

func (im *Importer) ImportTagsFromJSON(ctx context.Context, path string) (int, error) {
	var entries []JSONTag
	if err := readJSONFile(path, &entries); err != nil {
		return 0, err
	}

	tags := make([]*models.Tag, len(entries))
	for i, e := range entries {
		tags[i] = &models.Tag{Name: e.Name, Color: e.Color, Slug: e.Slug}
	}
	created, err := im.catalog.ImportTags(ctx, tags)
	if err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", path, err)
	}
	im.record("tags_json", len(entries), created)
	return created, nil
}

func (im *Importer) ImportIngredientsFromJSON(ctx context.Context, path string) (int, error) {
	var entries []JSONIngredient
	if err := readJSONFile(path, &entries); err != nil {
		return 0, err
	}

	items := make([]*models.Ingredient, len(entries))
	for i, e := range entries {
		items[i] = &models.Ingredient{Name: e.Name, MeasurementUnit: e.MeasurementUnit}
	}
	created, err := im.catalog.ImportIngredients(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", path, err)
	}
	im.record("ingredients_json", len(entries), created)
	return created, nil
}

// ImportIngredientsFromMongo harvests the ingredient lines of every legacy
// recipe document.
func (im *Importer) ImportIngredientsFromMongo(ctx context.Context) (int, error) {
	if im.mongoDB == nil {
		return 0, fmt.Errorf("mongo not configured; call UseMongo first")
	}

	cur, err := im.mongoDB.Collection(im.collection).Find(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to query %s: %w", im.collection, err)
	}
	return im.ImportIngredientsFromCursor(ctx, cur)
}

// ImportIngredientsFromCursor reads LegacyRecipe documents from cur until it
// is exhausted. Documents that fail to decode are skipped.
func (im *Importer) ImportIngredientsFromCursor(ctx context.Context, cur Cursor) (int, error) {
	defer cur.Close(ctx)

	var (
		items   []*models.Ingredient
		docs    int
		skipped int
	)
	seen := make(map[string]struct{})
	for cur.Next(ctx) {
		var doc LegacyRecipe
		if err := cur.Decode(&doc); err != nil {
			skipped++
			continue
		}
		docs++
		for _, line := range doc.Ingredients {
			name := strings.ToLower(strings.TrimSpace(line.Name))
			unit := strings.TrimSpace(line.Unit)
			if name == "" || unit == "" {
				continue
			}
			key := name + "\x00" + unit
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			items = append(items, &models.Ingredient{Name: name, MeasurementUnit: unit})
		}
	}
	if err := cur.Err(); err != nil {
		return 0, fmt.Errorf("failed to read legacy recipes: %w", err)
	}
	if skipped > 0 {
		slog.Warn("Skipped undecodable legacy recipes", slog.Int("count", skipped))
	}

	created, err := im.catalog.ImportIngredients(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("failed to import legacy ingredients: %w", err)
	}
	im.record("mongo_recipes", docs, created)
	return created, nil
}

// readJSONFile decodes a fixture file. A leading UTF-8 byte order mark is
// allowed.
func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
