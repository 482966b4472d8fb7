package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leapstack-labs/freebies/pkg/core"
)

// sqliteTx implements core.Tx on top of *sql.Tx.
type sqliteTx struct {
	*queries
	tx *sql.Tx
}

var _ core.Tx = (*sqliteTx)(nil)

func (t *sqliteTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *sqliteTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// WithTx begins a transaction on store, runs fn and commits when fn
// returns nil. Any error from fn, and any panic, rolls the transaction back
// so that nothing fn wrote becomes visible.
func WithTx(ctx context.Context, store core.Store, fn func(tx core.Tx) error) (err error) {
	tx, err := store.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit()
}
