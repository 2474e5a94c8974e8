package database

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/ellavondegurechaff/foodgram/internal/domain/logger"
)

// QueryHook reports every bun query through the query logger.
type QueryHook struct{}

var _ bun.QueryHook = QueryHook{}

func (QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	var rows int64
	if event.Result != nil {
		rows, _ = event.Result.RowsAffected()
	}

	ql := &logger.QueryLogger{
		Operation: event.Operation(),
		Query:     event.Query,
		StartTime: event.StartTime,
	}
	ql.Log(event.Err, rows)
}
