package postgres

import (
	"context"

	"github.com/pashagolub/pgxmock/v4"
)

// mockTxContext binds the mock to the context as the current transaction so
// that conn() resolves to it instead of a real pool.
func mockTxContext(mock pgxmock.PgxPoolIface) context.Context {
	return context.WithValue(context.Background(), txKey, mock)
}
