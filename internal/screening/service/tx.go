package service

import (
	"context"
	"database/sql"
	"time"

	dErrors "warden/pkg/domain-errors"
	txcontext "warden/pkg/platform/tx"
)

// TxRunner is the unit-of-work boundary around a mutation and its compliance
// audit event. The context passed to fn carries the transaction, if any.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const defaultTxTimeout = 5 * time.Second

// localTx bounds in-memory units of work with a timeout. When the store
// buffers its own writes (inner), the unit of work commits through it;
// Execute already discards the record copy when fn fails.
type localTx struct {
	timeout time.Duration
	inner   TxRunner
}

func (t localTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if t.inner != nil {
		return t.inner.RunInTx(ctx, fn)
	}
	return fn(ctx)
}

// SQLTx runs the unit of work in a PostgreSQL transaction that the stores
// join through the context.
type SQLTx struct {
	DB *sql.DB
}

func (t SQLTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return txcontext.Run(ctx, t.DB, fn)
}
