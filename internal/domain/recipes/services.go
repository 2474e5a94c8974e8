package recipes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

var errForeignStoredImage = errs.Validation("image", "must be a new upload or an external URL")

type Service struct {
	repository Repository
	images     ImageStore
	limits     Limits
}

func NewService(repository Repository, images ImageStore, limits Limits) *Service {
	if limits.PageSize <= 0 {
		limits.PageSize = config.DefaultPageSize
	}
	return &Service{
		repository: repository,
		images:     images,
		limits:     limits,
	}
}

// Validate checks an input against the configured bounds. An empty image is
// accepted only when the recipe already has one.
func (s *Service) Validate(in Input, imageRequired bool) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return errs.Validation("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > config.MaxRecipeNameLength {
		return errs.Validation("name", "must be at most %d characters", config.MaxRecipeNameLength)
	}
	if strings.TrimSpace(in.Text) == "" {
		return errs.Validation("text", "must not be empty")
	}
	if imageRequired && in.Image == "" {
		return errs.Validation("image", "is required")
	}
	if in.CookingTime < s.limits.CookingTimeMin || in.CookingTime > s.limits.CookingTimeMax {
		return errs.Validation("cooking_time", "must be between %d and %d", s.limits.CookingTimeMin, s.limits.CookingTimeMax)
	}

	if len(in.TagIDs) == 0 {
		return errs.Validation("tags", "at least one tag is required")
	}
	seenTags := make(map[int64]struct{}, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if _, dup := seenTags[id]; dup {
			return errs.Validation("tags", "tag %d is listed more than once", id)
		}
		seenTags[id] = struct{}{}
	}

	if len(in.Ingredients) == 0 {
		return errs.Validation("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[int64]struct{}, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if _, dup := seenIngredients[item.ID]; dup {
			return errs.Validation("ingredients", "ingredient %d is listed more than once", item.ID)
		}
		seenIngredients[item.ID] = struct{}{}

		if item.Amount < s.limits.AmountMin || item.Amount > s.limits.AmountMax {
			return errs.Validation("amount", "must be between %d and %d", s.limits.AmountMin, s.limits.AmountMax)
		}
	}

	return nil
}

// Create persists a recipe with its tag and ingredient sets in one transaction.
func (s *Service) Create(ctx context.Context, authorID int64, in Input) (*View, error) {
	if err := s.Validate(in, true); err != nil {
		return nil, err
	}
	if s.images.Owns(in.Image) {
		return nil, errForeignStoredImage
	}

	image, err := s.images.Save(ctx, in.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	var created *models.Recipe
	err = s.repository.InTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := checkReferences(ctx, repo, in); err != nil {
			return err
		}

		recipe := &models.Recipe{
			AuthorID:    authorID,
			Name:        strings.TrimSpace(in.Name),
			Text:        in.Text,
			Image:       image,
			CookingTime: in.CookingTime,
		}
		if err := repo.Insert(ctx, recipe); err != nil {
			return err
		}
		if err := writeAssociations(ctx, repo, recipe.ID, in); err != nil {
			return err
		}

		loaded, err := repo.GetByID(ctx, recipe.ID)
		if err != nil {
			return err
		}
		created = loaded
		return nil
	})
	if err != nil {
		s.discardImage(ctx, image, in.Image)
		return nil, err
	}

	slog.Info("Recipe created",
		slog.Int64("recipe_id", created.ID),
		slog.Int64("author_id", authorID),
		slog.Int("ingredients", len(in.Ingredients)),
		slog.Int("tags", len(in.TagIDs)))

	return &View{Recipe: created}, nil
}

// Replace overwrites a recipe and both of its association sets. Only the
// author may replace a recipe.
func (s *Service) Replace(ctx context.Context, actorID, recipeID int64, in Input) (*View, error) {
	if err := s.Validate(in, false); err != nil {
		return nil, err
	}

	// A stored reference is only accepted when it is the recipe's own image.
	keepStored := in.Image != "" && s.images.Owns(in.Image)

	var newImage string
	if in.Image != "" && !keepStored {
		stored, err := s.images.Save(ctx, in.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		newImage = stored
	}

	var (
		updated  *models.Recipe
		oldImage string
	)
	err := s.repository.InTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.GetByID(ctx, recipeID)
		if err != nil {
			return err
		}
		if existing.AuthorID != actorID {
			return errs.Forbidden("change another author's recipe")
		}
		if keepStored && in.Image != existing.Image {
			return errForeignStoredImage
		}
		if err := checkReferences(ctx, repo, in); err != nil {
			return err
		}

		existing.Name = strings.TrimSpace(in.Name)
		existing.Text = in.Text
		existing.CookingTime = in.CookingTime
		existing.UpdatedAt = time.Now()
		if newImage != "" && newImage != existing.Image {
			oldImage = existing.Image
			existing.Image = newImage
		}
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		if err := writeAssociations(ctx, repo, recipeID, in); err != nil {
			return err
		}

		updated, err = repo.GetByID(ctx, recipeID)
		return err
	})
	if err != nil {
		s.discardImage(ctx, newImage, in.Image)
		return nil, err
	}
	if oldImage != "" {
		s.discardImage(ctx, oldImage, "")
	}

	views, err := s.decorate(ctx, actorID, []*models.Recipe{updated})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Delete removes a recipe. Associations, favorites and cart entries go with it.
func (s *Service) Delete(ctx context.Context, actorID, recipeID int64) error {
	var image string
	err := s.repository.InTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.GetByID(ctx, recipeID)
		if err != nil {
			return err
		}
		if existing.AuthorID != actorID {
			return errs.Forbidden("delete another author's recipe")
		}
		image = existing.Image
		return repo.Delete(ctx, recipeID)
	})
	if err != nil {
		return err
	}

	s.discardImage(ctx, image, "")
	slog.Info("Recipe deleted", slog.Int64("recipe_id", recipeID), slog.Int64("author_id", actorID))
	return nil
}

// Get loads one recipe as seen by viewerID. Zero means anonymous.
func (s *Service) Get(ctx context.Context, viewerID, recipeID int64) (*View, error) {
	recipe, err := s.repository.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, viewerID, []*models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// List returns one page of recipes, newest first, and the total match count.
// The favorited and in-cart filters only apply to authenticated viewers.
func (s *Service) List(ctx context.Context, viewerID int64, q ListQuery) ([]*View, int, error) {
	filter := models.RecipeFilter{
		AuthorID: q.AuthorID,
		TagSlugs: q.TagSlugs,
	}
	if viewerID != 0 && q.Favorited {
		filter.FavoritedBy = viewerID
	}
	if viewerID != 0 && q.InCart {
		filter.InCartOf = viewerID
	}

	found, total, err := s.repository.List(ctx, filter, s.Page(q.Page, q.Limit))
	if err != nil {
		return nil, 0, err
	}

	views, err := s.decorate(ctx, viewerID, found)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Page converts a 1-based page number and page size into an offset window.
func (s *Service) Page(page, limit int) models.Page {
	return models.Paginate(page, limit, s.limits.PageSize, config.MaxPageSize)
}

func (s *Service) decorate(ctx context.Context, viewerID int64, found []*models.Recipe) ([]*View, error) {
	views := make([]*View, len(found))
	for i, recipe := range found {
		views[i] = &View{Recipe: recipe}
	}
	if viewerID == 0 || len(found) == 0 {
		return views, nil
	}

	recipeIDs := make([]int64, 0, len(found))
	authorIDs := make([]int64, 0, len(found))
	for _, recipe := range found {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	var (
		flags      map[int64]models.RecipeFlags
		subscribed map[int64]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		flags, err = s.repository.Flags(gctx, viewerID, recipeIDs)
		return err
	})
	g.Go(func() error {
		var err error
		subscribed, err = s.repository.SubscribedTo(gctx, viewerID, authorIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load viewer markers: %w", err)
	}

	for _, view := range views {
		f := flags[view.Recipe.ID]
		view.IsFavorited = f.Favorited
		view.IsInShoppingCart = f.InCart
		view.AuthorSubscribed = subscribed[view.Recipe.AuthorID]
	}
	return views, nil
}

// discardImage removes a stored image unless it is the caller's own reference.
func (s *Service) discardImage(ctx context.Context, stored, submitted string) {
	if stored == "" || stored == submitted {
		return
	}
	if err := s.images.Remove(ctx, stored); err != nil {
		slog.Warn("Failed to remove recipe image",
			slog.String("image", stored),
			slog.Any("error", err))
	}
}

func checkReferences(ctx context.Context, repo Repository, in Input) error {
	missing, err := repo.MissingTags(ctx, in.TagIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errs.NotFound("tag", missing[0])
	}

	ids := make([]int64, len(in.Ingredients))
	for i, item := range in.Ingredients {
		ids[i] = item.ID
	}
	missing, err = repo.MissingIngredients(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errs.NotFound("ingredient", missing[0])
	}
	return nil
}

func writeAssociations(ctx context.Context, repo Repository, recipeID int64, in Input) error {
	items := make([]*models.RecipeIngredient, len(in.Ingredients))
	for i, item := range in.Ingredients {
		items[i] = &models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		}
	}
	if err := repo.ReplaceIngredients(ctx, recipeID, items); err != nil {
		return err
	}
	return repo.ReplaceTags(ctx, recipeID, in.TagIDs)
}
