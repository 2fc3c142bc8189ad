package fongo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ti/fongo/log"
)

// Factory builds the database called name for owner, it is called once per
// name until the name is dropped.
type Factory func(owner *Fongo, name string) *DB

type options struct {
	debug      bool
	factory    Factory
	registerer prometheus.Registerer
	logger     log.Logger
	newID      IDGenerator
}

func evaluateOptions(opts []Option) *options {
	o := &options{factory: NewDB, newID: ObjectIDs()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Option the option for New.
type Option func(*options)

// WithDebug logs database creation and drops at debug level.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// WithDatabaseFactory replaces NewDB as the constructor of databases.
func WithDatabaseFactory(factory Factory) Option {
	return func(o *options) {
		if factory != nil {
			o.factory = factory
		}
	}
}

// WithRegisterer registers the database metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithLogger the logger used in debug mode, by default the logger of the
// call context is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithIDGenerator sets how the _id of documents inserted without one is
// generated, ObjectIDs by default.
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}
