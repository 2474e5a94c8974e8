package config

import "time"

// Recipe bounds
const (
	DefaultCookingTimeMin = 1
	DefaultCookingTimeMax = 32000
	DefaultAmountMin      = 1
	DefaultAmountMax      = 1000

	MaxRecipeNameLength = 200
	MaxTagNameLength    = 200
	MaxIngredientLength = 200
)

// User field limits
const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxNameLength     = 150
	MaxPasswordLength = 72 // bytes; bcrypt rejects longer input
)

// Pagination
const (
	DefaultPageSize     = 6
	MaxPageSize         = 100
	DefaultRecipesLimit = 3
	IngredientSearchMax = 20
)

// Database and Performance Constants
const (
	DefaultQueryTimeout = 30 * time.Second
	BatchQueryTimeout   = 30 * time.Second
	ImportBatchSize     = 500
	NetworkDialTimeout  = 5 * time.Second
)

// Web
const (
	DefaultTokenTTL       = 7 * 24 * time.Hour
	DefaultRateLimit      = 20
	DefaultRateBurst      = 40
	RateLimiterCacheSize  = 10000
	ShutdownTimeout       = 10 * time.Second
	MaxImageSize          = 10 << 20
	ShoppingListFilename  = "IngredientList.txt"
	ShoppingListHeader    = "Shopping list:"
	ServerName            = "Foodgram"
	RequestBodyLimitBytes = 16 << 20
)
