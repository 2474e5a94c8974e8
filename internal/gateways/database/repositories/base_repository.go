package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
)

// SQLSTATE codes the repositories translate into domain errors.
const (
	sqlStateForeignKey = "23503"
	sqlStateUnique     = "23505"
	sqlStateCheck      = "23514"
)

// BaseRepository carries the connection and the error translation shared by
// every repository. db is either the pool or a transaction.
type BaseRepository struct {
	db             bun.IDB
	defaultTimeout time.Duration
}

func NewBaseRepository(db bun.IDB) BaseRepository {
	return BaseRepository{
		db:             db,
		defaultTimeout: config.DefaultQueryTimeout,
	}
}

// RepositoryError is a storage failure with no domain meaning.
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

func (br BaseRepository) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, br.defaultTimeout)
}

// bind returns a copy of the base bound to tx.
func (br BaseRepository) bind(tx bun.Tx) BaseRepository {
	br.db = tx
	return br
}

// HandleError maps driver errors onto the domain taxonomy. Missing rows become
// NotFound, unique violations Conflict, and check violations Validation.
func (br BaseRepository) HandleError(operation, entity string, id interface{}, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound(entity, id)
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') {
		case sqlStateUnique:
			return errs.Conflict(entity, constraintField(pgErr.Field('t'), pgErr.Field('n')), nil)
		case sqlStateForeignKey:
			return errs.NotFound(referencedEntity(pgErr.Field('D')), nil)
		case sqlStateCheck:
			return errs.Validation(constraintField(pgErr.Field('t'), pgErr.Field('n')), "violates %s", pgErr.Field('n'))
		}
	}

	return &RepositoryError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

// Transaction runs fn in a transaction on the underlying connection. Nested
// calls on a transaction-bound repository use a savepoint.
func (br BaseRepository) Transaction(ctx context.Context, fn func(context.Context, bun.Tx) error) error {
	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	return br.db.RunInTx(timeoutCtx, nil, fn)
}

// BatchInsert inserts items in one statement, skipping rows that violate a
// unique constraint, and reports how many rows were created.
func (br BaseRepository) BatchInsert(ctx context.Context, entity string, items interface{}) (int, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	res, err := br.db.NewInsert().
		Model(items).
		On("CONFLICT DO NOTHING").
		Exec(timeoutCtx)
	if err != nil {
		return 0, br.HandleError("batch_insert", entity, nil, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, br.HandleError("batch_insert", entity, nil, err)
	}
	return int(n), nil
}

func (br BaseRepository) Exists(ctx context.Context, entity string, query *bun.SelectQuery) (bool, error) {
	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	exists, err := query.Exists(timeoutCtx)
	return exists, br.HandleError("exists", entity, nil, err)
}

// missingIDs returns the ids from want that are absent from table, in the
// order they were requested.
func (br BaseRepository) missingIDs(ctx context.Context, table string, want []int64) ([]int64, error) {
	if len(want) == 0 {
		return nil, nil
	}

	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	var found []int64
	err := br.db.NewSelect().
		Table(table).
		Column("id").
		Where("id IN (?)", bun.In(want)).
		Scan(timeoutCtx, &found)
	if err != nil {
		return nil, br.HandleError("missing_ids", table, nil, err)
	}

	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []int64
	for _, id := range want {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// memberIDs reports which of ids appear in column of table for a row owned by
// userID. It backs the favorited, in-cart and subscribed markers.
func (br BaseRepository) memberIDs(ctx context.Context, table, column string, userID int64, ids []int64) (map[int64]bool, error) {
	members := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return members, nil
	}

	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	var found []int64
	err := br.db.NewSelect().
		Table(table).
		Column(column).
		Where("user_id = ?", userID).
		Where("? IN (?)", bun.Ident(column), bun.In(ids)).
		Scan(timeoutCtx, &found)
	if err != nil {
		return nil, br.HandleError("member_ids", table, nil, err)
	}
	for _, id := range found {
		members[id] = true
	}
	return members, nil
}

// requireAffected turns an update or delete that touched nothing into NotFound.
func requireAffected(res sql.Result, entity string, id interface{}) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &RepositoryError{Operation: "rows_affected", Entity: entity, Err: err}
	}
	if n == 0 {
		return errs.NotFound(entity, id)
	}
	return nil
}

// constraintField derives a field name from a constraint. Postgres names
// single column constraints <table>_<column>_key; grouped ones keep their name.
func constraintField(table, constraint string) string {
	field := strings.TrimPrefix(constraint, table+"_")
	field = strings.TrimSuffix(field, "_key")
	field = strings.TrimSuffix(field, "_check")
	if field == "" {
		return constraint
	}
	return field
}

// referencedEntity pulls the table out of a foreign key violation detail such
// as: Key (recipe_id)=(5) is not present in table "recipes".
func referencedEntity(detail string) string {
	start := strings.Index(detail, `table "`)
	if start < 0 {
		return "referenced row"
	}
	table := detail[start+len(`table "`):]
	if end := strings.IndexByte(table, '"'); end >= 0 {
		table = table[:end]
	}
	return strings.TrimSuffix(table, "s")
}
