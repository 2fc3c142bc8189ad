package database

import (
	"fmt"
	"strings"
)

// Transaction a Transaction interface
type Transaction interface {
	Rollback() error
	Commit() error
}

// E element the kv value
type E struct {
	Key   string
	Value any
}

// D the ordered document
type D []E

// Map returns the document as a map, later keys win.
func (d D) Map() map[string]any {
	m := make(map[string]any, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}
	return m
}

// CE the condition elements
type CE struct {
	Key   string
	Value any
	C     Condition
}

// C the conditions, all of them must match.
type C []CE

// String print the condition as string
func (c C) String() string {
	var sb strings.Builder
	for _, v := range c {
		fmt.Fprintf(&sb, "[%s %v %v]", v.Key, v.C, v.Value)
	}
	return sb.String()
}

// Condition the comparison operator of a CE
type Condition uint8

// Condition
const (
	// Eq =
	Eq Condition = iota
	// Ne !=
	Ne
	// Lt <
	Lt
	// Lte <=
	Lte
	// Gt >
	Gt
	// Gte >=
	Gte
	// In [a,b,c]
	In
	// Nin Not in [a,b,c]
	Nin
)

var conditionOperators = [...]string{"$eq", "$ne", "$lt", "$lte", "$gt", "$gte", "$in", "$nin"}

// String returns the query operator name, for example $gte.
func (c Condition) String() string {
	if int(c) < len(conditionOperators) {
		return conditionOperators[c]
	}
	return fmt.Sprintf("Condition(%d)", uint8(c))
}
