package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ellavondegurechaff/foodgram/backend"
	"github.com/ellavondegurechaff/foodgram/backend/config"
	"github.com/ellavondegurechaff/foodgram/backend/handlers"
	webmodels "github.com/ellavondegurechaff/foodgram/backend/models"
	"github.com/ellavondegurechaff/foodgram/foodgram"
	"github.com/ellavondegurechaff/foodgram/internal/domain/auth"
	authmock "github.com/ellavondegurechaff/foodgram/internal/domain/auth/mock"
	"github.com/ellavondegurechaff/foodgram/internal/domain/catalog"
	catalogmock "github.com/ellavondegurechaff/foodgram/internal/domain/catalog/mock"
	"github.com/ellavondegurechaff/foodgram/internal/domain/collections"
	collectionsmock "github.com/ellavondegurechaff/foodgram/internal/domain/collections/mock"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
	"github.com/ellavondegurechaff/foodgram/internal/domain/follows"
	followsmock "github.com/ellavondegurechaff/foodgram/internal/domain/follows/mock"
	"github.com/ellavondegurechaff/foodgram/internal/domain/recipes"
	recipesmock "github.com/ellavondegurechaff/foodgram/internal/domain/recipes/mock"
	"github.com/ellavondegurechaff/foodgram/internal/domain/shopping"
	shoppingmock "github.com/ellavondegurechaff/foodgram/internal/domain/shopping/mock"
	"github.com/ellavondegurechaff/foodgram/internal/domain/users"
	usersmock "github.com/ellavondegurechaff/foodgram/internal/domain/users/mock"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

const testSecret = "test-secret"

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type fixture struct {
	webApp      *handlers.WebApp
	tokens      *authmock.MockRepository
	users       *usersmock.MockRepository
	recipes     *recipesmock.MockRepository
	catalog     *catalogmock.MockRepository
	collections *collectionsmock.MockRepository
	follows     *followsmock.MockRepository
	shopping    *shoppingmock.MockRepository
	test        func(req *http.Request) *http.Response
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		tokens:      authmock.NewMockRepository(ctrl),
		users:       usersmock.NewMockRepository(ctrl),
		recipes:     recipesmock.NewMockRepository(ctrl),
		catalog:     catalogmock.NewMockRepository(ctrl),
		collections: collectionsmock.NewMockRepository(ctrl),
		follows:     followsmock.NewMockRepository(ctrl),
		shopping:    shoppingmock.NewMockRepository(ctrl),
	}
	f.collections.EXPECT().
		InTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, collections.Repository) error) error {
			return fn(ctx, f.collections)
		}).
		AnyTimes()
	f.follows.EXPECT().
		InTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, follows.Repository) error) error {
			return fn(ctx, f.follows)
		}).
		AnyTimes()

	cfg := &foodgram.Config{
		Web:     foodgram.WebConfig{RateLimit: 1000, RateBurst: 1000},
		Recipes: foodgram.RecipesConfig{CookingTimeMin: 1, CookingTimeMax: 32000, AmountMin: 1, AmountMax: 1000, PageSize: 2},
	}
	userService := users.NewService(f.users, cfg.Recipes.PageSize)
	f.webApp = &handlers.WebApp{
		Config: config.NewWebAppConfig(cfg, true),
		DB:     pinger{},
		Users:  userService,
		Auth:   auth.NewService(f.tokens, userService, testSecret, time.Hour),
		Recipes: recipes.NewService(f.recipes, recipesmock.NewMockImageStore(ctrl), recipes.Limits{
			CookingTimeMin: cfg.Recipes.CookingTimeMin,
			CookingTimeMax: cfg.Recipes.CookingTimeMax,
			AmountMin:      cfg.Recipes.AmountMin,
			AmountMax:      cfg.Recipes.AmountMax,
			PageSize:       cfg.Recipes.PageSize,
		}),
		Catalog:     catalog.NewService(f.catalog),
		Collections: collections.NewService(f.collections),
		Follows:     follows.NewService(f.follows, cfg.Recipes.PageSize),
		Shopping:    shopping.NewService(f.shopping),
		Version:     "test",
	}

	app := backend.NewApp(f.webApp)
	f.test = func(req *http.Request) *http.Response {
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}
	return f
}

// login returns an Authorization header for userID whose token is active.
func (f *fixture) login(t *testing.T, userID int64) string {
	t.Helper()
	tokenID := "tok-" + strconv.FormatInt(userID, 10)
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: userID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	f.tokens.EXPECT().TokenActive(gomock.Any(), tokenID, gomock.Any()).Return(true, nil).AnyTimes()
	return "Token " + signed
}

func request(method, target, token, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return req
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t)

	resp := f.test(request(http.MethodGet, "/health", "", ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	f.webApp.DB = pinger{err: errors.New("connection refused")}
	resp = f.test(request(http.MethodGet, "/health", "", ""))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var health webmodels.HealthCheck
	decode(t, resp, &health)
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "connection refused", health.Components["database"].Message)
}

func TestWritesRequireToken(t *testing.T) {
	routes := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/recipes/"},
		{http.MethodPatch, "/api/recipes/1/"},
		{http.MethodDelete, "/api/recipes/1/"},
		{http.MethodPost, "/api/recipes/1/favorite/"},
		{http.MethodDelete, "/api/recipes/1/shopping_cart/"},
		{http.MethodGet, "/api/recipes/download_shopping_cart/"},
		{http.MethodPost, "/api/users/2/subscribe/"},
		{http.MethodGet, "/api/users/me/"},
		{http.MethodPost, "/api/auth/token/logout/"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.target, func(t *testing.T) {
			// No repository expectations: reaching the core fails the test.
			f := newFixture(t)
			resp := f.test(request(rt.method, rt.target, "", `{}`))
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body webmodels.APIResponse
			decode(t, resp, &body)
			require.NotNil(t, body.Error)
			assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
		})
	}
}

func TestRevokedToken(t *testing.T) {
	f := newFixture(t)
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "revoked",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 1,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	f.tokens.EXPECT().TokenActive(gomock.Any(), "revoked", gomock.Any()).Return(false, nil)

	resp := f.test(request(http.MethodGet, "/api/recipes/", "Bearer "+signed, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListRecipesPagination(t *testing.T) {
	f := newFixture(t)
	author := &models.User{ID: 7, Username: "chef"}
	f.recipes.EXPECT().
		List(gomock.Any(), models.RecipeFilter{TagSlugs: []string{"lunch", "dinner"}}, models.Page{Limit: 2, Offset: 2}).
		Return([]*models.Recipe{
			{ID: 4, Name: "Soup", AuthorID: 7, Author: author, CookingTime: 30},
			{ID: 3, Name: "Stew", AuthorID: 7, Author: author, CookingTime: 90},
		}, 5, nil)

	resp := f.test(request(http.MethodGet, "/api/recipes/?page=2&tags=lunch&tags=dinner&is_favorited=1", "", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Count    int                      `json:"count"`
		Next     *string                  `json:"next"`
		Previous *string                  `json:"previous"`
		Results  []webmodels.RecipeDetail `json:"results"`
	}
	decode(t, resp, &page)

	assert.Equal(t, 5, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Soup", page.Results[0].Name)
	assert.False(t, page.Results[0].IsFavorited)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=3")
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Previous, "page=1")
}

func TestCreateRecipeRejectsBadAmount(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, 1)

	body := `{"ingredients":[{"id":1,"amount":1001}],"tags":[1],"image":"https://cdn.example.com/a.png","name":"Soup","text":"Boil","cooking_time":10}`
	resp := f.test(request(http.MethodPost, "/api/recipes/", token, body))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out webmodels.APIResponse
	decode(t, resp, &out)
	require.NotNil(t, out.Error)
	assert.Contains(t, out.Error.Details, "amount")
}

func TestCreateRecipeMissingFields(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, 1)

	resp := f.test(request(http.MethodPost, "/api/recipes/", token, `{"name":"Soup"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out webmodels.APIResponse
	decode(t, resp, &out)
	require.NotNil(t, out.Error)
	assert.Contains(t, out.Error.Details, "text")
	assert.Contains(t, out.Error.Details, "ingredients")
}

func TestFavoriteToggle(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, 1)
	recipe := &models.Recipe{ID: 5, Name: "Soup", CookingTime: 20}

	gomock.InOrder(
		f.collections.EXPECT().RecipeByID(gomock.Any(), int64(5)).Return(recipe, nil),
		f.collections.EXPECT().Exists(gomock.Any(), collections.Favorites, int64(1), int64(5)).Return(false, nil),
		f.collections.EXPECT().Add(gomock.Any(), collections.Favorites, int64(1), int64(5)).Return(nil),
		f.collections.EXPECT().RecipeByID(gomock.Any(), int64(5)).Return(recipe, nil),
		f.collections.EXPECT().Exists(gomock.Any(), collections.Favorites, int64(1), int64(5)).Return(true, nil),
	)

	resp := f.test(request(http.MethodPost, "/api/recipes/5/favorite/", token, ""))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var summary webmodels.RecipeSummary
	decode(t, resp, &summary)
	assert.Equal(t, webmodels.RecipeSummary{ID: 5, Name: "Soup", CookingTime: 20}, summary)

	resp = f.test(request(http.MethodPost, "/api/recipes/5/favorite/", token, ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out webmodels.APIResponse
	decode(t, resp, &out)
	require.NotNil(t, out.Error)
	assert.Equal(t, "CONFLICT", out.Error.Code)
}

func TestRemoveMissingCartEntry(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, 1)

	f.collections.EXPECT().RecipeByID(gomock.Any(), int64(5)).Return(&models.Recipe{ID: 5}, nil)
	f.collections.EXPECT().Exists(gomock.Any(), collections.ShoppingCart, int64(1), int64(5)).Return(false, nil)

	resp := f.test(request(http.MethodDelete, "/api/recipes/5/shopping_cart/", token, ""))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubscribe(t *testing.T) {
	t.Run("self", func(t *testing.T) {
		f := newFixture(t)
		token := f.login(t, 3)

		resp := f.test(request(http.MethodPost, "/api/users/3/subscribe/", token, ""))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown author", func(t *testing.T) {
		f := newFixture(t)
		token := f.login(t, 3)
		f.follows.EXPECT().UserByID(gomock.Any(), int64(9)).Return(nil, errs.NotFound("user", int64(9)))

		resp := f.test(request(http.MethodPost, "/api/users/9/subscribe/", token, ""))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("created", func(t *testing.T) {
		f := newFixture(t)
		token := f.login(t, 3)
		author := &models.User{ID: 4, Username: "chef", Email: "chef@example.com"}

		f.follows.EXPECT().UserByID(gomock.Any(), int64(4)).Return(author, nil).Times(2)
		f.follows.EXPECT().Exists(gomock.Any(), int64(3), int64(4)).Return(false, nil)
		f.follows.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.follows.EXPECT().RecentRecipes(gomock.Any(), int64(4), 1).Return([]*models.Recipe{{ID: 8, Name: "Pie"}}, nil)
		f.follows.EXPECT().CountRecipes(gomock.Any(), int64(4)).Return(6, nil)

		resp := f.test(request(http.MethodPost, "/api/users/4/subscribe/?recipes_limit=1", token, ""))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var sub webmodels.SubscriptionDTO
		decode(t, resp, &sub)
		assert.True(t, sub.IsSubscribed)
		assert.Equal(t, 6, sub.RecipesCount)
		require.Len(t, sub.Recipes, 1)
		assert.Equal(t, "Pie", sub.Recipes[0].Name)
	})
}

func TestDownloadShoppingCart(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, 1)
	f.shopping.EXPECT().Aggregate(gomock.Any(), int64(1)).Return([]models.ShoppingLine{
		{IngredientID: 1, Name: "Salt", MeasurementUnit: "g", Total: 15},
	}, nil)

	resp := f.test(request(http.MethodGet, "/api/recipes/download_shopping_cart/", token, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\n• Salt: 15 g", string(body))
}

func TestGetTagNotFound(t *testing.T) {
	f := newFixture(t)
	f.catalog.EXPECT().GetTag(gomock.Any(), int64(42)).Return(nil, errs.NotFound("tag", int64(42)))

	resp := f.test(request(http.MethodGet, "/api/tags/42/", "", ""))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.webApp.Users = f.webApp.Users.WithCost(4)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errs.Conflict("user", "email", nil))

	body := `{"email":"cook@example.com","username":"cook","first_name":"A","last_name":"B","password":"s3cret-pass"}`
	resp := f.test(request(http.MethodPost, "/api/users/", "", body))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out webmodels.APIResponse
	decode(t, resp, &out)
	require.NotNil(t, out.Error)
	assert.Contains(t, out.Error.Details, "email")
}
