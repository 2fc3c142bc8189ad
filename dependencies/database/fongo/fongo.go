package fongo

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/mongo/address"
	mopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ti/fongo/dependencies/database"
	"github.com/ti/fongo/log"
)

const (
	systemLabel = "Fongo"

	// DefaultHost the host reported by ServerAddress, nothing listens on it.
	DefaultHost = "127.0.0.1"
	// DefaultPort the default port of a mongod.
	DefaultPort = 27017
)

func init() {
	database.RegisterImplements("fongo", func(ctx context.Context, u *url.URL) (database.Database, error) {
		d, err := Open(ctx, u)
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}

// Fongo is an in-memory client. It hands out databases by name, creating
// each one on first access, and is safe for concurrent use.
type Fongo struct {
	name    string
	debug   bool
	address address.Address
	logger  log.Logger
	newID   IDGenerator
	metrics *metrics
	dbs     *registry[*DB]
}

var _ database.Client = (*Fongo)(nil)

// New creates a client called name.
func New(name string, opts ...Option) *Fongo {
	o := evaluateOptions(opts)
	f := &Fongo{
		name:    name,
		debug:   o.debug,
		address: address.Address(net.JoinHostPort(DefaultHost, strconv.Itoa(DefaultPort))),
		logger:  o.logger,
		newID:   o.newID,
	}
	if o.registerer != nil {
		f.metrics = newMetrics(o.registerer, name, o.logger)
	}
	factory := o.factory
	f.dbs = newRegistry(func(dbName string) *DB {
		return factory(f, dbName)
	})
	return f
}

// Open creates a client from an uri and returns its database:
//
//	fongo://client/database?debug=true&id=snowflake
//
// id is one of objectid (the default), uuid or snowflake.
func Open(_ context.Context, u *url.URL) (*DB, error) {
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return nil, NewInvalidArgumentError("uri_path", "database name not specified in fongo URI")
	}
	var opts []Option
	if v := u.Query().Get("debug"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, NewInvalidArgumentError("debug", err.Error())
		}
		opts = append(opts, WithDebug(debug))
	}
	newID, err := parseIDGenerator(u.Query().Get("id"))
	if err != nil {
		return nil, NewInvalidArgumentError("id", err.Error())
	}
	opts = append(opts, WithIDGenerator(newID))
	return New(u.Host, opts...).DB(dbName), nil
}

// Name the name the client was created with.
func (f *Fongo) Name() string {
	return f.name
}

// IsDebug reports whether the client logs its database lifecycle.
func (f *Fongo) IsDebug() bool {
	return f.debug
}

// ServerAddress the placeholder server address, no socket is ever opened.
func (f *Fongo) ServerAddress() address.Address {
	return f.address
}

// Options returns client options describing the placeholder server.
func (f *Fongo) Options() *mopts.ClientOptions {
	return mopts.Client().
		SetHosts([]string{f.address.String()}).
		SetAppName(f.name)
}

func (f *Fongo) String() string {
	return systemLabel + " (" + f.name + ")"
}

// DB returns the database called name, creating it on first access.
func (f *Fongo) DB(name string) *DB {
	return f.db(context.Background(), name)
}

func (f *Fongo) db(ctx context.Context, name string) *DB {
	d, created := f.dbs.getOrCreate(name)
	if created {
		f.metrics.onCreate()
		f.trace(ctx, "create_database", name)
	}
	return d
}

// GetDatabase returns the database called name, creating it on first access.
func (f *Fongo) GetDatabase(ctx context.Context, name string) (database.Database, error) {
	return f.db(ctx, name), nil
}

// UsedDatabases returns the databases created so far, ordered by name.
func (f *Fongo) UsedDatabases() []*DB {
	return f.dbs.handles()
}

// ListDatabases returns the databases created so far, ordered by name.
func (f *Fongo) ListDatabases(_ context.Context) ([]database.Database, error) {
	dbs := f.dbs.handles()
	out := make([]database.Database, len(dbs))
	for i, d := range dbs {
		out[i] = d
	}
	return out, nil
}

// ListDatabaseNames returns the names of the databases created so far, sorted.
func (f *Fongo) ListDatabaseNames(_ context.Context) ([]string, error) {
	return f.dbs.names(), nil
}

// DropDatabase forgets the database called name. Holders of the dropped
// database can keep using it, the next access by name creates a new one.
func (f *Fongo) DropDatabase(ctx context.Context, name string) error {
	if _, dropped := f.dbs.drop(name); dropped {
		f.metrics.onDrop(1)
		f.trace(ctx, "drop_database", name)
	}
	return nil
}

// Close drops every database, the client stays usable.
func (f *Fongo) Close(ctx context.Context) error {
	n := f.dbs.clear()
	f.metrics.onDrop(n)
	if n > 0 {
		f.trace(ctx, "close", "")
	}
	return nil
}

func (f *Fongo) trace(ctx context.Context, action, dbName string) {
	if !f.debug {
		return
	}
	logger := f.logger
	if logger == nil {
		logger = log.Extract(ctx)
	}
	fields := map[string]any{
		"action": action,
		"client": f.name,
	}
	if dbName != "" {
		fields["database"] = dbName
	}
	logger.With(fields).Debug("%s %s", f, action)
}
