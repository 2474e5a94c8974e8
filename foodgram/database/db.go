package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/models"
)

const (
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	PoolSize     int
	MaxIdleConns int
	MaxLifetime  int
}

// DSN renders the config as a postgres URL.
func (cfg DBConfig) DSN() string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode) + "&connect_timeout=5",
	}
	return u.String()
}

// DB pairs a pgx pool, used for health checks and maintenance statements,
// with a bun DB that backs every repository.
type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	var err error
	for i := 0; i < defaultMaxRetries; i++ {
		var conn net.Conn
		conn, err = net.DialTimeout("tcp", addr, config.NetworkDialTimeout)
		if err == nil {
			conn.Close()
			break
		}
		slog.Warn("Database not reachable yet",
			slog.String("type", "db"),
			slog.String("addr", addr),
			slog.Int("attempt", i+1))
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	return open(ctx, poolConfig, cfg.DSN(), cfg.PoolSize)
}

// NewFromDSN connects without the reachability probe. Used with ready-made
// connection strings such as the ones test containers hand out.
func NewFromDSN(ctx context.Context, dsn string) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	return open(ctx, poolConfig, dsn, 0)
}

func open(ctx context.Context, poolConfig *pgxpool.Config, dsn string, poolSize int) (*DB, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if poolSize > 0 {
		sqldb.SetMaxOpenConns(poolSize)
	}

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	bunDB.RegisterModel((*models.RecipeTag)(nil))
	bunDB.AddQueryHook(QueryHook{})

	return &DB{pool: pool, bunDB: bunDB}, nil
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

// Ping checks both connections.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool ping: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// appTables lists the application tables in foreign key order.
var appTables = []struct {
	model       interface{}
	name        string
	foreignKeys []string
}{
	{model: (*models.User)(nil), name: "users"},
	{model: (*models.AuthToken)(nil), name: "auth_tokens", foreignKeys: []string{
		`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Tag)(nil), name: "tags"},
	{model: (*models.Ingredient)(nil), name: "ingredients"},
	{model: (*models.Recipe)(nil), name: "recipes", foreignKeys: []string{
		`("author_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.RecipeIngredient)(nil), name: "recipe_ingredients", foreignKeys: []string{
		`("recipe_id") REFERENCES "recipes" ("id") ON DELETE CASCADE`,
		`("ingredient_id") REFERENCES "ingredients" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.RecipeTag)(nil), name: "recipe_tags", foreignKeys: []string{
		`("recipe_id") REFERENCES "recipes" ("id") ON DELETE CASCADE`,
		`("tag_id") REFERENCES "tags" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Favorite)(nil), name: "favorites", foreignKeys: []string{
		`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		`("recipe_id") REFERENCES "recipes" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.ShoppingCartEntry)(nil), name: "shopping_cart", foreignKeys: []string{
		`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		`("recipe_id") REFERENCES "recipes" ("id") ON DELETE CASCADE`,
	}},
	{model: (*models.Follow)(nil), name: "follows", foreignKeys: []string{
		`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		`("following_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
	}},
}

// InitializeSchema creates all required tables, constraints and indexes.
// Safe to run repeatedly.
func (db *DB) InitializeSchema(ctx context.Context) error {
	for _, table := range appTables {
		query := db.bunDB.NewCreateTable().
			Model(table.model).
			IfNotExists()
		for _, fk := range table.foreignKeys {
			query = query.ForeignKey(fk)
		}

		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	constraints := []struct{ table, name, check string }{
		{"follows", "follows_no_self_follow", "CHECK (user_id <> following_id)"},
		{"recipe_ingredients", "recipe_ingredients_amount_positive", "CHECK (amount > 0)"},
		{"recipes", "recipes_cooking_time_positive", "CHECK (cooking_time > 0)"},
	}
	for _, c := range constraints {
		stmt := fmt.Sprintf(`
			DO $$
			BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					ALTER TABLE %s ADD CONSTRAINT %s %s;
				END IF;
			END $$;`, c.name, c.table, c.name, c.check)
		if _, err := db.ExecWithLog(ctx, stmt); err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", c.name, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_recipes_author_id ON recipes(author_id);",
		"CREATE INDEX IF NOT EXISTS idx_recipes_created_at ON recipes(created_at DESC, id DESC);",
		"CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe_id ON recipe_ingredients(recipe_id);",
		"CREATE INDEX IF NOT EXISTS idx_recipe_tags_tag_id ON recipe_tags(tag_id);",
		"CREATE INDEX IF NOT EXISTS idx_favorites_user_id ON favorites(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_shopping_cart_user_id ON shopping_cart(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_follows_following_id ON follows(following_id);",
		"CREATE INDEX IF NOT EXISTS idx_ingredients_name_lower ON ingredients(lower(name) text_pattern_ops);",
		"CREATE INDEX IF NOT EXISTS idx_auth_tokens_user_id ON auth_tokens(user_id);",
	}
	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// ResetAppTables truncates every application table that exists.
func (db *DB) ResetAppTables(ctx context.Context) error {
	rows, err := db.pool.Query(ctx, `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public'`)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	present, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("failed to read table names: %w", err)
	}

	existing := make(map[string]bool, len(present))
	for _, name := range present {
		existing[name] = true
	}

	var toTruncate []string
	for _, t := range appTables {
		if existing[t.name] {
			toTruncate = append(toTruncate, fmt.Sprintf("%q", t.name))
		}
	}
	if len(toTruncate) == 0 {
		slog.Warn("No app tables found to reset", slog.String("type", "db"))
		return nil
	}

	stmt := "TRUNCATE TABLE " + strings.Join(toTruncate, ", ") + " RESTART IDENTITY CASCADE;"
	if _, err := db.ExecWithLog(ctx, stmt); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	slog.Info("App tables truncated", slog.String("type", "db"), slog.Any("tables", toTruncate))
	return nil
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}
