package foodgram

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
)

// LoadConfig reads the TOML file at path, applies .env and environment overrides
// and fills defaults for anything left unset.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	DB      DBConfig      `toml:"db"`
	Web     WebConfig     `toml:"web"`
	Auth    AuthConfig    `toml:"auth"`
	Spaces  SpacesConfig  `toml:"spaces"`
	Recipes RecipesConfig `toml:"recipes"`
	Mongo   MongoConfig   `toml:"mongo"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	SSLMode      string `toml:"ssl_mode"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type WebConfig struct {
	Address        string   `toml:"address"`
	AllowedOrigins []string `toml:"allowed_origins"`
	MediaRoot      string   `toml:"media_root"`
	MediaURL       string   `toml:"media_url"`
	RateLimit      float64  `toml:"rate_limit"`
	RateBurst      int      `toml:"rate_burst"`
}

type AuthConfig struct {
	Secret        string `toml:"secret"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

type SpacesConfig struct {
	Key       string `toml:"key"`
	Secret    string `toml:"secret"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	ImageRoot string `toml:"image_root"`
}

// Enabled reports whether recipe images should go to Spaces instead of local disk.
func (s SpacesConfig) Enabled() bool {
	return s.Key != "" && s.Secret != "" && s.Bucket != ""
}

// RecipesConfig holds the bounds enforced by the recipe writer.
type RecipesConfig struct {
	CookingTimeMin int `toml:"cooking_time_min"`
	CookingTimeMax int `toml:"cooking_time_max"`
	AmountMin      int `toml:"amount_min"`
	AmountMax      int `toml:"amount_max"`
	PageSize       int `toml:"page_size"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FOODGRAM_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("FOODGRAM_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("FOODGRAM_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.DB.Port = port
		}
	}
	if v := os.Getenv("FOODGRAM_AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("FOODGRAM_SPACES_KEY"); v != "" {
		c.Spaces.Key = v
	}
	if v := os.Getenv("FOODGRAM_SPACES_SECRET"); v != "" {
		c.Spaces.Secret = v
	}
	if v := os.Getenv("FOODGRAM_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
}

func (c *Config) applyDefaults() {
	if c.DB.Host == "" {
		c.DB.Host = "localhost"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.Web.Address == "" {
		c.Web.Address = ":8000"
	}
	if c.Web.MediaRoot == "" {
		c.Web.MediaRoot = "media"
	}
	if c.Web.MediaURL == "" {
		c.Web.MediaURL = "/media"
	}
	if c.Web.RateLimit == 0 {
		c.Web.RateLimit = config.DefaultRateLimit
	}
	if c.Web.RateBurst == 0 {
		c.Web.RateBurst = config.DefaultRateBurst
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = int(config.DefaultTokenTTL / time.Hour)
	}
	if c.Spaces.ImageRoot == "" {
		c.Spaces.ImageRoot = "recipes/images"
	}
	if c.Recipes.CookingTimeMin == 0 {
		c.Recipes.CookingTimeMin = config.DefaultCookingTimeMin
	}
	if c.Recipes.CookingTimeMax == 0 {
		c.Recipes.CookingTimeMax = config.DefaultCookingTimeMax
	}
	if c.Recipes.AmountMin == 0 {
		c.Recipes.AmountMin = config.DefaultAmountMin
	}
	if c.Recipes.AmountMax == 0 {
		c.Recipes.AmountMax = config.DefaultAmountMax
	}
	if c.Recipes.PageSize == 0 {
		c.Recipes.PageSize = config.DefaultPageSize
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "recipes"
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("auth.secret is required (or set FOODGRAM_AUTH_SECRET)")
	}
	if c.Recipes.CookingTimeMin < 1 || c.Recipes.CookingTimeMax < c.Recipes.CookingTimeMin {
		return fmt.Errorf("invalid cooking time bounds [%d, %d]", c.Recipes.CookingTimeMin, c.Recipes.CookingTimeMax)
	}
	if c.Recipes.AmountMin < 1 || c.Recipes.AmountMax < c.Recipes.AmountMin {
		return fmt.Errorf("invalid amount bounds [%d, %d]", c.Recipes.AmountMin, c.Recipes.AmountMax)
	}
	return nil
}
