package fongo

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ti/fongo/dependencies/database"
)

// DB is one in-memory database, made of named collections of documents.
type DB struct {
	owner       *Fongo
	name        string
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	docs []bson.M
}

var _ database.Database = (*DB)(nil)

// NewDB the default Factory.
func NewDB(owner *Fongo, name string) *DB {
	return &DB{
		owner:       owner,
		name:        name,
		collections: make(map[string]*collection),
	}
}

func (d *DB) newID() any {
	if d.owner != nil && d.owner.newID != nil {
		return d.owner.newID()
	}
	return primitive.NewObjectID()
}

// Name the database name.
func (d *DB) Name() string {
	return d.name
}

// Owner the client the database was created by.
func (d *DB) Owner() *Fongo {
	return d.owner
}

func (d *DB) String() string {
	return d.name
}

// GetDatabase returns a sibling database of the same client.
func (d *DB) GetDatabase(ctx context.Context, name string) (database.Database, error) {
	if d.owner == nil {
		return nil, NewInvalidOperationError("get_database", "database has no client")
	}
	return d.owner.GetDatabase(ctx, name)
}

// Drop removes the database from its client.
func (d *DB) Drop(ctx context.Context) error {
	if d.owner == nil {
		return NewInvalidOperationError("drop", "database has no client")
	}
	return d.owner.DropDatabase(ctx, d.name)
}

// Close deletes all data of the database.
func (d *DB) Close(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.collections = make(map[string]*collection)
	return nil
}

// CollectionNames returns the names of the collections holding data, sorted.
func (d *DB) CollectionNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.collections))
	for name := range d.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DropCollection deletes a collection, it is a no-op when absent.
func (d *DB) DropCollection(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.collections, name)
	return nil
}

// collection returns nil when the collection does not exist, d.mu must be held.
func (d *DB) collection(name string) *collection {
	return d.collections[name]
}

// getOrCreateCollection d.mu must be write locked.
func (d *DB) getOrCreateCollection(name string) *collection {
	c := d.collections[name]
	if c == nil {
		c = &collection{}
		d.collections[name] = c
	}
	return c
}

// cloneCollections copies the collections down to the top level of each
// document, d.mu must be held.
func (d *DB) cloneCollections() map[string]*collection {
	out := make(map[string]*collection, len(d.collections))
	for name, c := range d.collections {
		docs := make([]bson.M, len(c.docs))
		for i, doc := range c.docs {
			docs[i] = cloneDocument(doc)
		}
		out[name] = &collection{docs: docs}
	}
	return out
}

func cloneDocument(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
