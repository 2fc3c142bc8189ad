package fongo

import (
	"context"
	"sync"

	"github.com/ti/fongo/dependencies/database"
)

// transaction keeps a copy of the database taken when it starts, Rollback
// puts it back. Writes are not isolated from other callers.
type transaction struct {
	db         *DB
	mu         sync.Mutex
	snapshot   map[string]*collection
	committed  bool
	rolledBack bool
}

// StartTransaction starts a new transaction
func (d *DB) StartTransaction(_ context.Context) (database.Transaction, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return &transaction{
		db:       d,
		snapshot: d.cloneCollections(),
	}, nil
}

// WithTransaction writes go straight to the database, the transaction only
// decides whether they are kept.
func (d *DB) WithTransaction(_ context.Context, _ database.Transaction) database.Database {
	return d
}

// Commit keeps the writes made since the transaction started.
func (t *transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkOpen("commit"); err != nil {
		return err
	}
	t.committed = true
	t.snapshot = nil
	return nil
}

// Rollback restores the database to the state it had when the transaction started.
func (t *transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkOpen("rollback"); err != nil {
		return err
	}
	t.rolledBack = true
	t.db.mu.Lock()
	t.db.collections = t.snapshot
	t.db.mu.Unlock()
	t.snapshot = nil
	return nil
}

func (t *transaction) checkOpen(operation string) error {
	switch {
	case t.committed:
		return NewTransactionError(operation, "transaction already committed")
	case t.rolledBack:
		return NewTransactionError(operation, "transaction already rolled back")
	}
	return nil
}
