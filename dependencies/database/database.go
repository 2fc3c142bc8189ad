package database

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

// Database the per-database interface of a document store.
// nolint: interfacebloat // more method in database.
type Database interface {
	GetDatabase(ctx context.Context, name string) (Database, error)
	Close(ctx context.Context) error
	Insert(ctx context.Context, table string, docs any) (count int, err error)
	InsertOne(ctx context.Context, table string, data any) error
	// Update the doc, the value of doc can be [database.D] or any other pointer.
	Update(ctx context.Context, table string, condition C, doc any) (count int, err error)
	// UpdateOne the value of doc can be [database.D] or any other pointer.
	UpdateOne(ctx context.Context, table string, condition C, doc any) (count int, err error)
	// Replace upserts docs in bulk, matching existing documents by indexKeys.
	Replace(ctx context.Context, table string, indexKeys []string, docs any) (count int, err error)
	ReplaceOne(ctx context.Context, table string, condition C, data any) (count int, err error)
	Delete(ctx context.Context, table string, condition C) (count int, err error)
	DeleteOne(ctx context.Context, table string, condition C) (count int, err error)
	// Find the data must be a slice, sortBy, ["age"] means age ASC, ["-age"] means age DESC，
	Find(ctx context.Context, table string, condition C, sortBy []string, limit int, arrayPtr any) error
	FindOne(ctx context.Context, table string, condition C, data any) error
	FindRows(ctx context.Context, table string, condition C, sortBy []string, limit int, oneData any) (Row, error)
	Exist(ctx context.Context, table string, condition C) (bool, error)
	Count(ctx context.Context, table string, condition C) (int64, error)
	IncrCounter(ctx context.Context, counterTable, key string, start, count int64) error
	DecrCounter(ctx context.Context, counterTable, key string, count int64) error
	GetCounter(ctx context.Context, counterTable, key string) (int64, error)
	StartTransaction(ctx context.Context) (Transaction, error)
	WithTransaction(ctx context.Context, tx Transaction) Database
}

// Client the connection level interface, the same surface a driver client exposes.
type Client interface {
	// GetDatabase returns the database called name, creating it on first use.
	GetDatabase(ctx context.Context, name string) (Database, error)
	ListDatabases(ctx context.Context) ([]Database, error)
	ListDatabaseNames(ctx context.Context) ([]string, error)
	// DropDatabase is a no-op when name is not present.
	DropDatabase(ctx context.Context, name string) error
	Close(ctx context.Context) error
	String() string
}

// Row the row defined.
type Row interface {
	Close() error
	Decode() (any, error)
	Next() bool
}

// New database by uri, for example fongo://shop/orders.
func New(ctx context.Context, uri string) (Database, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	d := &DB{}
	err = d.Init(ctx, u)
	if err != nil {
		return nil, err
	}
	return d.Database, nil
}

var (
	implementsMu sync.RWMutex
	implements   = make(map[string]func(context.Context, *url.URL) (Database, error))
)

// RegisterImplements register implements.
func RegisterImplements(scheme string, newFN func(context.Context, *url.URL) (Database, error)) {
	implementsMu.Lock()
	defer implementsMu.Unlock()
	implements[scheme] = newFN
}

// DB the db instance
type DB struct {
	Database
}

// Init by uri
func (d *DB) Init(ctx context.Context, u *url.URL) (err error) {
	implementsMu.RLock()
	newFN, ok := implements[u.Scheme]
	implementsMu.RUnlock()
	if !ok {
		return fmt.Errorf("%s not implement", u.Scheme)
	}
	d.Database, err = newFN(ctx, u)
	return err
}

// Close the db.
func (d *DB) Close(ctx context.Context) error {
	return d.Database.Close(ctx)
}
