package fongo

import (
	"bytes"
	"reflect"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ti/fongo/dependencies/database"
)

// matchConditions checks if a document matches all conditions
func matchConditions(doc bson.M, conditions database.C) bool {
	for _, cond := range conditions {
		if !matchCondition(doc, cond) {
			return false
		}
	}
	return true
}

// matchCondition follows the query semantics of a document store: a missing
// field matches $ne, $nin and an equality with nil, nothing else.
func matchCondition(doc bson.M, cond database.CE) bool {
	value, ok := doc[cond.Key]
	if !ok {
		switch cond.C {
		case database.Eq:
			return cond.Value == nil
		case database.Ne:
			return cond.Value != nil
		case database.Nin:
			return true
		default:
			return false
		}
	}
	switch cond.C {
	case database.Eq:
		return valuesEqual(value, cond.Value)
	case database.Ne:
		return !valuesEqual(value, cond.Value)
	case database.Gt:
		c, ok := compareValues(value, cond.Value)
		return ok && c > 0
	case database.Gte:
		c, ok := compareValues(value, cond.Value)
		return ok && c >= 0
	case database.Lt:
		c, ok := compareValues(value, cond.Value)
		return ok && c < 0
	case database.Lte:
		c, ok := compareValues(value, cond.Value)
		return ok && c <= 0
	case database.In:
		return containsValue(cond.Value, value)
	case database.Nin:
		return !containsValue(cond.Value, value)
	default:
		return false
	}
}

// normalize maps query values to the types documents are stored with.
func normalize(v any) any {
	switch t := v.(type) {
	case time.Time:
		return primitive.NewDateTimeFromTime(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return primitive.NewDateTimeFromTime(*t)
	default:
		return v
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case primitive.DateTime:
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	if i, ok := asInt64(v); ok {
		return float64(i), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func valuesEqual(a, b any) bool {
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// compareValues orders numbers whatever their width, strings, datetimes and
// object ids. ok is false when the values are not comparable.
func compareValues(a, b any) (c int, ok bool) {
	a, b = normalize(a), normalize(b)
	if ia, okA := asInt64(a); okA {
		if ib, okB := asInt64(b); okB {
			return cmpOrdered(ia, ib), true
		}
	}
	if fa, okA := asFloat64(a); okA {
		if fb, okB := asFloat64(b); okB {
			return cmpOrdered(fa, fb), true
		}
	}
	switch va := a.(type) {
	case string:
		if vb, okB := b.(string); okB {
			return strings.Compare(va, vb), true
		}
	case primitive.ObjectID:
		if vb, okB := b.(primitive.ObjectID); okB {
			return bytes.Compare(va[:], vb[:]), true
		}
	case bool:
		if vb, okB := b.(bool); okB {
			if va == vb {
				return 0, true
			}
			if !va {
				return -1, true
			}
			return 1, true
		}
	}
	return 0, false
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// containsValue checks if value is an element of list
func containsValue(list any, value any) bool {
	lv := reflect.ValueOf(list)
	if lv.Kind() != reflect.Slice && lv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < lv.Len(); i++ {
		if valuesEqual(value, lv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

// sortDocuments sorts by the fields in sortBy, "-field" means descending.
// Missing and incomparable values keep their order.
func sortDocuments(docs []bson.M, sortBy []string) {
	if len(sortBy) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, field := range sortBy {
			desc := strings.HasPrefix(field, "-")
			field = strings.TrimPrefix(field, "-")
			c, ok := compareValues(docs[i][field], docs[j][field])
			if !ok || c == 0 {
				continue
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
