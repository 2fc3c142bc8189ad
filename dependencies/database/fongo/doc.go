// Package fongo provides an in-memory document database client for testing.
//
// A Fongo value stands in for a connection to a server. It hands out
// databases by name, creating each one on first access, and the same name
// returns the same *DB until the database is dropped. No socket is opened.
//
// URL Format:
//
//	fongo://client/database_name?debug=true&id=objectid
//
// id selects the generator of missing _id values: objectid, uuid or snowflake.
//
// Basic Usage:
//
//	import (
//	    "context"
//	    "github.com/ti/fongo/dependencies/database"
//	    _ "github.com/ti/fongo/dependencies/database/fongo"
//	)
//
//	db, err := database.New(ctx, "fongo://local/testdb")
//	if err != nil {
//	    panic(err)
//	}
//	defer db.Close(ctx)
//
//	user := &User{ID: 1, Name: "Alice"}
//	db.InsertOne(ctx, "users", user)
//
// Or with a client:
//
//	client := fongo.New("shop", fongo.WithDebug(true))
//	orders := client.DB("orders")
//	names, _ := client.ListDatabaseNames(ctx)
//	client.DropDatabase(ctx, "orders")
//
// Documents are encoded with their json tags to BSON, so anything decoded
// from them behaves as if it came back from a server: _id is set on insert,
// numbers compare regardless of their width, and a missing document is
// reported with an error matching mongo.ErrNoDocuments.
package fongo
