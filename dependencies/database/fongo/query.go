package fongo

import (
	"context"
	"encoding/base64"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ti/fongo/dependencies/database"
	"github.com/ti/fongo/dependencies/database/codecs"
)

// maxLimit bounds the page size of PageQuery and StreamQuery.
const maxLimit = 2000

func pageLimit(limit int) int {
	if limit <= 0 || limit > maxLimit {
		return maxLimit
	}
	return limit
}

// PageQuery returns the page in.Page (starting at 1) of the matching documents.
func PageQuery[T any](ctx context.Context, d *DB, table string,
	in *database.PageQueryRequest,
) (*database.PageQueryResponse[T], error) {
	out := &database.PageQueryResponse[T]{}
	if !in.NoCount {
		total, err := d.Count(ctx, table, in.Filters)
		if err != nil {
			return nil, err
		}
		out.Total = total
	}
	limit := pageLimit(in.Limit)
	skip := 0
	if in.Page > 1 {
		skip = (in.Page - 1) * limit
	}
	var err error
	out.Data, err = decodePointers[T](d.query(table, in.Filters, in.Sort, skip, limit))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// StreamQuery returns the documents after in.PageToken in the order of
// in.PageField (_id when empty), and the token of the next call when more
// documents follow.
func StreamQuery[T any](ctx context.Context, d *DB, table string,
	in *database.StreamQueryRequest,
) (*database.StreamResponse[T], error) {
	out := &database.StreamResponse[T]{}
	if !in.NoCount {
		total, err := d.Count(ctx, table, in.Filters)
		if err != nil {
			return nil, err
		}
		out.Total = total
	}
	pageField := in.PageField
	if pageField == "" {
		pageField = idField
	}
	filters := append(database.C{}, in.Filters...)
	comp, order := database.Lt, "-"+pageField
	if in.Ascending {
		comp, order = database.Gt, pageField
	}
	if in.PageToken != "" {
		var token PageToken
		if err := decodePageToken(in.PageToken, &token); err != nil {
			return nil, NewInvalidArgumentError("page_token", err.Error())
		}
		if token.PageLastValue == nil {
			return out, nil
		}
		filters = append(filters, database.CE{
			Key:   pageField,
			Value: token.PageLastValue,
			C:     comp,
		})
	}
	limit := pageLimit(in.Limit)
	// one more document tells whether there is a next page
	docs := d.query(table, filters, []string{order}, 0, limit+1)
	if len(docs) > limit {
		docs = docs[:limit]
		token := PageToken{PageLastValue: docs[limit-1][pageField]}
		out.PageToken = token.String()
	}
	var err error
	out.Data, err = decodePointers[T](docs)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PageToken the cursor of a stream, the last value keeps its BSON type so
// the next page compares it with the same type it was read as.
type PageToken struct {
	PageLastValue any `bson:"l,omitempty"`
}

// String the url safe token, empty when there is no last value.
func (p *PageToken) String() string {
	if p.PageLastValue == nil {
		return ""
	}
	b, err := bson.Marshal(p)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodePageToken(src string, t *PageToken) error {
	b, err := base64.RawURLEncoding.DecodeString(src)
	if err != nil {
		return err
	}
	return bson.Unmarshal(b, t)
}

func decodePointers[T any](docs []bson.M) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		item := new(T)
		if err := codecs.DecodeMap(doc, item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
