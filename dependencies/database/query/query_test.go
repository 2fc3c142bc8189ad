package query_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ti/fongo/dependencies/database"
	"github.com/ti/fongo/dependencies/database/fongo"
	"github.com/ti/fongo/dependencies/database/query"
)

type QueryUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func newUsers(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.New(ctx, "fongo://local/pagetest")
	if err != nil {
		t.Fatal(err)
	}
	users := []*QueryUser{
		{ID: 1, Name: "Alice", Email: "alice@example.com", Age: 25},
		{ID: 2, Name: "Bob", Email: "bob@example.com", Age: 30},
		{ID: 3, Name: "Charlie", Email: "charlie@example.com", Age: 35},
		{ID: 4, Name: "David", Email: "david@example.com", Age: 40},
		{ID: 5, Name: "Eve", Email: "eve@example.com", Age: 45},
	}
	if _, err = db.Insert(ctx, "users", users); err != nil {
		t.Fatal("Insert failed:", err)
	}
	return db
}

func TestPageQuery(t *testing.T) {
	ctx := context.Background()
	db := newUsers(t)

	t.Run("Basic PageQuery", func(t *testing.T) {
		resp, err := query.PageQuery[QueryUser](ctx, db, "users", &database.PageQueryRequest{
			Page:  1,
			Limit: 2,
		})
		if err != nil {
			t.Fatal("PageQuery failed:", err)
		}
		if resp.Total != 5 {
			t.Errorf("Expected total 5, got %d", resp.Total)
		}
		if len(resp.Data) != 2 {
			t.Errorf("Expected 2 items, got %d", len(resp.Data))
		}
	})

	t.Run("PageQuery with Sort", func(t *testing.T) {
		resp, err := query.PageQuery[QueryUser](ctx, db, "users", &database.PageQueryRequest{
			Page:  2,
			Limit: 2,
			Sort:  []string{"-age"},
		})
		if err != nil {
			t.Fatal("PageQuery failed:", err)
		}
		if len(resp.Data) != 2 || resp.Data[0].Name != "Charlie" || resp.Data[1].Name != "Bob" {
			t.Errorf("Unexpected page %+v", resp.Data)
		}
	})

	t.Run("PageQuery past the end", func(t *testing.T) {
		resp, err := query.PageQuery[QueryUser](ctx, db, "users", &database.PageQueryRequest{
			Page:    4,
			Limit:   2,
			NoCount: true,
		})
		if err != nil {
			t.Fatal("PageQuery failed:", err)
		}
		if len(resp.Data) != 0 || resp.Total != 0 {
			t.Errorf("Expected an empty page without total, got %d items total %d", len(resp.Data), resp.Total)
		}
	})

	t.Run("PageQuery with Filters", func(t *testing.T) {
		resp, err := query.PageQuery[QueryUser](ctx, db, "users", &database.PageQueryRequest{
			Filters: database.C{{Key: "age", Value: 35, C: database.Gte}},
		})
		if err != nil {
			t.Fatal("PageQuery failed:", err)
		}
		if resp.Total != 3 || len(resp.Data) != 3 {
			t.Errorf("Expected 3 users, got %d total %d", len(resp.Data), resp.Total)
		}
	})
}

func TestStreamQuery(t *testing.T) {
	ctx := context.Background()
	db := newUsers(t)

	var ids []int64
	var pages int
	req := &database.StreamQueryRequest{
		PageField: "id",
		Limit:     2,
		Ascending: true,
	}
	for {
		resp, err := query.StreamQuery[QueryUser](ctx, db, "users", req)
		if err != nil {
			t.Fatal("StreamQuery failed:", err)
		}
		if resp.Total != 5 {
			t.Errorf("Expected total 5, got %d", resp.Total)
		}
		pages++
		for _, u := range resp.Data {
			ids = append(ids, u.ID)
		}
		if resp.PageToken == "" {
			break
		}
		req.PageToken = resp.PageToken
		if pages > 5 {
			t.Fatal("stream does not end")
		}
	}
	if pages != 3 {
		t.Errorf("Expected 3 pages, got %d", pages)
	}
	for i, id := range ids {
		if id != int64(i+1) {
			t.Fatalf("Unexpected order %v", ids)
		}
	}

	t.Run("Descending", func(t *testing.T) {
		first, err := query.StreamQuery[QueryUser](ctx, db, "users", &database.StreamQueryRequest{
			PageField: "id",
			Limit:     2,
			NoCount:   true,
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(first.Data) != 2 || first.Data[0].ID != 5 || first.PageToken == "" {
			t.Fatalf("Unexpected first page %+v token %q", first.Data, first.PageToken)
		}
		resp, err := query.StreamQuery[QueryUser](ctx, db, "users", &database.StreamQueryRequest{
			PageField: "id",
			PageToken: first.PageToken,
			Limit:     10,
			NoCount:   true,
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Data) != 3 || resp.Data[0].ID != 3 || resp.PageToken != "" {
			t.Errorf("Unexpected descending page %+v token %q", resp.Data, resp.PageToken)
		}
	})

	t.Run("Invalid token", func(t *testing.T) {
		_, err := query.StreamQuery[QueryUser](ctx, db, "users", &database.StreamQueryRequest{
			PageField: "id",
			PageToken: "4",
		})
		if !errors.Is(err, fongo.ErrInvalidArgument) {
			t.Errorf("Expected invalid argument, got %v", err)
		}
	})
}

type scored struct {
	ID    string  `json:"_id,omitempty"`
	Code  string  `json:"code"`
	Score float64 `json:"score"`
}

// streamAll follows the page tokens until the stream ends.
func streamAll(t *testing.T, db database.Database, table string, req *database.StreamQueryRequest) (pages [][]*scored) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		resp, err := query.StreamQuery[scored](ctx, db, table, req)
		if err != nil {
			t.Fatal("StreamQuery failed:", err)
		}
		pages = append(pages, resp.Data)
		if resp.PageToken == "" {
			return pages
		}
		req.PageToken = resp.PageToken
	}
	t.Fatal("stream does not end")
	return nil
}

func TestStreamQueryCursorTypes(t *testing.T) {
	ctx := context.Background()
	db, err := database.New(ctx, "fongo://local/cursors")
	if err != nil {
		t.Fatal(err)
	}
	docs := []*scored{
		{ID: "000000000000000000000001", Code: "10", Score: 1.5},
		{ID: "000000000000000000000002", Code: "11", Score: 2.5},
		{ID: "000000000000000000000003", Code: "12", Score: 3.5},
		{ID: "000000000000000000000004", Code: "13", Score: 4.5},
	}
	if _, err = db.Insert(ctx, "scores", docs); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		pageField string
		ascending bool
		want      []string
	}{
		{"float", "score", true, []string{"10", "11", "12", "13"}},
		{"numeric string", "code", true, []string{"10", "11", "12", "13"}},
		{"hex string", "_id", true, []string{"10", "11", "12", "13"}},
		{"default _id", "", false, []string{"13", "12", "11", "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := streamAll(t, db, "scores", &database.StreamQueryRequest{
				PageField: tt.pageField,
				Ascending: tt.ascending,
				Limit:     2,
				NoCount:   true,
			})
			if len(pages) != 2 {
				t.Fatalf("Expected 2 pages, got %d", len(pages))
			}
			var got []string
			for _, page := range pages {
				for _, doc := range page {
					got = append(got, doc.Code)
				}
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("default _id with object ids", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			if err := db.InsertOne(ctx, "generated", database.D{{Key: "n", Value: i}}); err != nil {
				t.Fatal(err)
			}
		}
		var seen int
		req := &database.StreamQueryRequest{Limit: 2, Ascending: true}
		for i := 0; i < 10; i++ {
			resp, err := query.StreamQuery[map[string]any](ctx, db, "generated", req)
			if err != nil {
				t.Fatal(err)
			}
			seen += len(resp.Data)
			if resp.PageToken == "" {
				break
			}
			req.PageToken = resp.PageToken
		}
		if seen != 5 {
			t.Errorf("Expected 5 documents, got %d", seen)
		}
	})
}

type otherDatabase struct {
	database.Database
}

func TestUnimplemented(t *testing.T) {
	ctx := context.Background()
	_, err := query.PageQuery[QueryUser](ctx, otherDatabase{}, "users", &database.PageQueryRequest{})
	if status.Code(err) != codes.Unimplemented {
		t.Errorf("Expected Unimplemented, got %v", err)
	}
	_, err = query.StreamQuery[QueryUser](ctx, nil, "users", &database.StreamQueryRequest{})
	if status.Code(err) != codes.Unimplemented {
		t.Errorf("Expected Unimplemented, got %v", err)
	}
}
