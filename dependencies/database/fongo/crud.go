package fongo

import (
	"context"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ti/fongo/dependencies/database"
	"github.com/ti/fongo/dependencies/database/codecs"
)

const idField = "_id"

// Insert inserts one document or a slice of documents, documents without
// an _id get an ObjectID. Nothing is inserted when one document fails.
func (d *DB) Insert(_ context.Context, name string, docs any) (count int, err error) {
	rows, err := toDocuments(docs)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if _, ok := row[idField]; !ok {
			row[idField] = d.newID()
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.getOrCreateCollection(name)
	for i, row := range rows {
		id := row[idField]
		dup := c.indexOf(database.C{{Key: idField, Value: id}}) >= 0
		for _, prev := range rows[:i] {
			dup = dup || valuesEqual(prev[idField], id)
		}
		if dup {
			return 0, NewDuplicateKeyError(name, i, id)
		}
	}
	c.docs = append(c.docs, rows...)
	return len(rows), nil
}

// InsertOne inserts a single document
func (d *DB) InsertOne(ctx context.Context, name string, data any) error {
	_, err := d.Insert(ctx, name, data)
	return err
}

// Update sets the fields of doc on every document matching the condition
func (d *DB) Update(_ context.Context, name string, condition database.C, doc any) (count int, err error) {
	return d.update(name, condition, doc, false)
}

// UpdateOne sets the fields of doc on the first document matching the condition
func (d *DB) UpdateOne(_ context.Context, name string, condition database.C, doc any) (count int, err error) {
	return d.update(name, condition, doc, true)
}

func (d *DB) update(name string, condition database.C, doc any, one bool) (count int, err error) {
	set, err := toDocument(doc)
	if err != nil {
		return 0, err
	}
	// _id is immutable
	delete(set, idField)
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.collection(name)
	if c == nil {
		return 0, nil
	}
	for _, row := range c.docs {
		if !matchConditions(row, condition) {
			continue
		}
		for k, v := range set {
			row[k] = v
		}
		count++
		if one {
			break
		}
	}
	return count, nil
}

// Replace upserts documents, a document replaces the one with the same
// values for indexKeys and is inserted when there is none.
func (d *DB) Replace(_ context.Context, name string, indexKeys []string, docs any) (count int, err error) {
	rows, err := toDocuments(docs)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.getOrCreateCollection(name)
	for _, row := range rows {
		idx := -1
		if len(indexKeys) > 0 {
			cond := make(database.C, len(indexKeys))
			for i, key := range indexKeys {
				cond[i] = database.CE{Key: key, Value: row[key]}
			}
			idx = c.indexOf(cond)
		}
		if idx >= 0 {
			keepID(row, c.docs[idx])
			c.docs[idx] = row
		} else {
			if _, ok := row[idField]; !ok {
				row[idField] = d.newID()
			}
			c.docs = append(c.docs, row)
		}
		count++
	}
	return count, nil
}

// ReplaceOne replaces the first document matching the condition, keeping its _id
func (d *DB) ReplaceOne(_ context.Context, name string, condition database.C, data any) (count int, err error) {
	row, err := toDocument(data)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.collection(name)
	if c == nil {
		return 0, nil
	}
	idx := c.indexOf(condition)
	if idx < 0 {
		return 0, nil
	}
	keepID(row, c.docs[idx])
	c.docs[idx] = row
	return 1, nil
}

// Delete deletes documents matching the condition
func (d *DB) Delete(_ context.Context, name string, condition database.C) (count int, err error) {
	return d.delete(name, condition, false), nil
}

// DeleteOne deletes the first document matching the condition
func (d *DB) DeleteOne(_ context.Context, name string, condition database.C) (count int, err error) {
	return d.delete(name, condition, true), nil
}

func (d *DB) delete(name string, condition database.C, one bool) (count int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.collection(name)
	if c == nil {
		return 0
	}
	kept := c.docs[:0]
	for _, row := range c.docs {
		if (!one || count == 0) && matchConditions(row, condition) {
			count++
			continue
		}
		kept = append(kept, row)
	}
	clear(c.docs[len(kept):])
	c.docs = kept
	return count
}

// Find decodes the documents matching the condition into arrayPtr, a pointer to a slice.
func (d *DB) Find(_ context.Context, name string, condition database.C, sortBy []string, limit int, arrayPtr any) error {
	rows := d.query(name, condition, sortBy, 0, limit)
	return decodeDocuments(rows, arrayPtr)
}

// FindOne decodes the first document matching the condition into data
func (d *DB) FindOne(_ context.Context, name string, condition database.C, data any) error {
	rows := d.query(name, condition, nil, 0, 1)
	if len(rows) == 0 {
		return NewNotFoundError(name)
	}
	return codecs.DecodeMap(rows[0], data)
}

// FindRows returns an iterator over the matching documents, each decoded
// to the type of oneData, or to bson.M when oneData is nil.
func (d *DB) FindRows(_ context.Context, name string, condition database.C, sortBy []string, limit int, oneData any) (database.Row, error) {
	return &rows{
		docs:    d.query(name, condition, sortBy, 0, limit),
		current: -1,
		typ:     reflect.TypeOf(oneData),
	}, nil
}

// Exist checks if any document matches the condition
func (d *DB) Exist(_ context.Context, name string, condition database.C) (bool, error) {
	return d.count(name, condition) > 0, nil
}

// Count counts documents matching the condition
func (d *DB) Count(_ context.Context, name string, condition database.C) (int64, error) {
	return d.count(name, condition), nil
}

func (d *DB) count(name string, condition database.C) int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c := d.collection(name)
	if c == nil {
		return 0
	}
	var n int64
	for _, row := range c.docs {
		if matchConditions(row, condition) {
			n++
		}
	}
	return n
}

// query returns copies of the matching documents, sorted, after skip and limit.
func (d *DB) query(name string, condition database.C, sortBy []string, skip, limit int) []bson.M {
	d.mu.RLock()
	c := d.collection(name)
	var out []bson.M
	if c != nil {
		for _, row := range c.docs {
			if matchConditions(row, condition) {
				out = append(out, cloneDocument(row))
			}
		}
	}
	d.mu.RUnlock()
	sortDocuments(out, sortBy)
	if skip > 0 {
		if skip >= len(out) {
			return nil
		}
		out = out[skip:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (c *collection) indexOf(condition database.C) int {
	for i, row := range c.docs {
		if matchConditions(row, condition) {
			return i
		}
	}
	return -1
}

func keepID(row, old bson.M) {
	if id, ok := old[idField]; ok {
		row[idField] = id
	}
}

// toDocument encodes a struct, a map, a database.D or a bson.D.
func toDocument(doc any) (bson.M, error) {
	switch v := doc.(type) {
	case nil:
		return nil, NewInvalidArgumentError("doc", "document is nil")
	case database.D:
		bd := make(bson.D, len(v))
		for i, e := range v {
			bd[i] = bson.E{Key: e.Key, Value: e.Value}
		}
		return codecs.EncodeToMap(bd)
	}
	m, err := codecs.EncodeToMap(doc)
	if err != nil {
		return nil, NewInvalidArgumentError("doc", fmt.Sprintf("can not encode %T: %s", doc, err))
	}
	return m, nil
}

// toDocuments accepts one document or a slice of documents.
func toDocuments(docs any) ([]bson.M, error) {
	switch docs.(type) {
	case database.D, bson.D:
		row, err := toDocument(docs)
		if err != nil {
			return nil, err
		}
		return []bson.M{row}, nil
	}
	v := reflect.ValueOf(docs)
	if v.Kind() == reflect.Ptr && v.Elem().Kind() == reflect.Slice {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		row, err := toDocument(docs)
		if err != nil {
			return nil, err
		}
		return []bson.M{row}, nil
	}
	rows := make([]bson.M, v.Len())
	for i := range rows {
		row, err := toDocument(v.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

// decodeDocuments replaces the slice arrayPtr points to with the decoded documents.
func decodeDocuments(docs []bson.M, arrayPtr any) error {
	v := reflect.ValueOf(arrayPtr)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return NewInvalidArgumentError("arrayPtr", "must be a pointer to slice")
	}
	slice := v.Elem()
	elemType := slice.Type().Elem()
	out := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		elem, err := decodeAs(doc, elemType)
		if err != nil {
			return err
		}
		out = reflect.Append(out, elem)
	}
	slice.Set(out)
	return nil
}

// decodeAs decodes doc to a new value of type t.
func decodeAs(doc bson.M, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.Ptr {
		elem := reflect.New(t.Elem())
		if err := codecs.DecodeMap(doc, elem.Interface()); err != nil {
			return reflect.Value{}, err
		}
		return elem, nil
	}
	elem := reflect.New(t)
	if err := codecs.DecodeMap(doc, elem.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return elem.Elem(), nil
}

// rows implements database.Row over a snapshot of documents
type rows struct {
	docs    []bson.M
	current int
	typ     reflect.Type
}

func (r *rows) Next() bool {
	r.current++
	return r.current < len(r.docs)
}

func (r *rows) Decode() (any, error) {
	if r.current < 0 || r.current >= len(r.docs) {
		return nil, NewInvalidArgumentError("row_position", "position out of range")
	}
	if r.typ == nil {
		return codecs.EncodeToMap(r.docs[r.current])
	}
	v, err := decodeAs(r.docs[r.current], r.typ)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (r *rows) Close() error {
	r.docs = nil
	return nil
}
