package projection

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const cursorPrefix = "arrayconnection:"

func EncodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

func DecodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidFilter, "malformed cursor %q", cursor)
	}
	offset, err := strconv.Atoi(strings.TrimPrefix(string(raw), cursorPrefix))
	if err != nil || !strings.HasPrefix(string(raw), cursorPrefix) || offset < 0 {
		return 0, errors.Wrapf(ErrInvalidFilter, "malformed cursor %q", cursor)
	}
	return offset, nil
}

type Edge[T any] struct {
	Cursor string
	Node   T
}

type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     string
	EndCursor       string
}

type Page[T any] struct {
	Edges      []Edge[T]
	PageInfo   PageInfo
	TotalCount int
}

// NewPage wraps one window of results that starts at offset within a result
// set of total rows.
func NewPage[T any](items []T, offset, total int) Page[T] {
	offset = max(offset, 0)
	page := Page[T]{
		Edges:      make([]Edge[T], 0, len(items)),
		TotalCount: total,
	}
	for i, item := range items {
		page.Edges = append(page.Edges, Edge[T]{Cursor: EncodeCursor(offset + i), Node: item})
	}
	page.PageInfo.HasPreviousPage = offset > 0
	page.PageInfo.HasNextPage = offset+len(items) < total
	if len(page.Edges) > 0 {
		page.PageInfo.StartCursor = page.Edges[0].Cursor
		page.PageInfo.EndCursor = page.Edges[len(page.Edges)-1].Cursor
	}
	return page
}

func (p Page[T]) Nodes() []T {
	nodes := make([]T, 0, len(p.Edges))
	for _, e := range p.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes
}
