package fongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ti/fongo/dependencies/database"
)

// counters are stored as {_id: key, count: n} documents of the counter collection.
const counterField = "count"

// IncrCounter adds count to a counter, a missing counter starts at start.
func (d *DB) IncrCounter(_ context.Context, counterTable, key string, start, count int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc := d.counterDocument(counterTable, key, start)
	doc[counterField] = counterValue(doc) + count
	return nil
}

// DecrCounter subtracts count from a counter, a missing counter starts at 0.
func (d *DB) DecrCounter(_ context.Context, counterTable, key string, count int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc := d.counterDocument(counterTable, key, 0)
	doc[counterField] = counterValue(doc) - count
	return nil
}

// GetCounter returns 0 for a missing counter.
func (d *DB) GetCounter(_ context.Context, counterTable, key string) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c := d.collection(counterTable)
	if c == nil {
		return 0, nil
	}
	if idx := c.indexOf(counterCondition(key)); idx >= 0 {
		return counterValue(c.docs[idx]), nil
	}
	return 0, nil
}

// counterDocument d.mu must be write locked.
func (d *DB) counterDocument(counterTable, key string, start int64) bson.M {
	c := d.getOrCreateCollection(counterTable)
	if idx := c.indexOf(counterCondition(key)); idx >= 0 {
		return c.docs[idx]
	}
	doc := bson.M{idField: key, counterField: start}
	c.docs = append(c.docs, doc)
	return doc
}

func counterCondition(key string) database.C {
	return database.C{{Key: idField, Value: key}}
}

func counterValue(doc bson.M) int64 {
	v, _ := asInt64(doc[counterField])
	return v
}
