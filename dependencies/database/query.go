package database

// PageQueryRequest general query conditions, support pagination, sorting, etc.
type PageQueryRequest struct {
	Filters C        `json:"filter,omitempty"`
	Sort    []string `json:"sort,omitempty"`
	// Page starts at 1.
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
	// disable count when query
	NoCount bool
}

// PageQueryResponse paging query response
type PageQueryResponse[T any] struct {
	Data  []*T  `json:"data,omitempty"`
	Total int64 `json:"total,omitempty"`
}

// StreamQueryRequest the stream query, PageField is the cursor field of the
// stream, _id when empty. PageToken is the opaque token of the previous page.
type StreamQueryRequest struct {
	PageToken string `json:"page_token,omitempty"`
	PageField string
	Filters   C   `json:"filter,omitempty"`
	Limit     int `json:"limit,omitempty"`
	Ascending bool
	// disable count when query
	NoCount bool
}

// StreamResponse Stream query response, an empty PageToken means the stream is done.
type StreamResponse[T any] struct {
	PageToken string `json:"page_token,omitempty"`
	Data      []*T   `json:"data,omitempty"`
	Total     int64  `json:"total,omitempty"`
}
