// Package query pages through any database.Database.
package query

import (
	"context"
	"reflect"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ti/fongo/dependencies/database"
	"github.com/ti/fongo/dependencies/database/fongo"
)

// PageQuery query the documents
func PageQuery[T any](ctx context.Context, d database.Database, table string,
	in *database.PageQueryRequest,
) (*database.PageQueryResponse[T], error) {
	if client, ok := d.(*fongo.DB); ok {
		return fongo.PageQuery[T](ctx, client, table, in)
	}
	return nil, status.Errorf(codes.Unimplemented, "PageQuery unimplemented for %s ",
		typeName(d))
}

// StreamQuery query the documents
func StreamQuery[T any](ctx context.Context, d database.Database, table string,
	in *database.StreamQueryRequest,
) (*database.StreamResponse[T], error) {
	if client, ok := d.(*fongo.DB); ok {
		return fongo.StreamQuery[T](ctx, client, table, in)
	}
	return nil, status.Errorf(codes.Unimplemented, "StreamQuery unimplemented for %s ",
		typeName(d))
}

func typeName(d database.Database) string {
	if d == nil {
		return "<nil>"
	}
	return reflect.TypeOf(d).String()
}
