package graphqlserver

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const maxPageSize = 250

type connectionArgs struct {
	First *int32
	After *string
}

type pageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

type edge[T any] struct {
	Cursor string
	Node   T
}

type connection[T any] struct {
	Edges    []*edge[T]
	Nodes    []T
	PageInfo *pageInfo
}

func encodeCursor(index int) string {
	return base64.StdEncoding.EncodeToString([]byte("cursor:" + strconv.Itoa(index)))
}

func decodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil || !strings.HasPrefix(string(raw), "cursor:") {
		return 0, fmt.Errorf("Invalid cursor for current pagination sort.")
	}
	index, err := strconv.Atoi(strings.TrimPrefix(string(raw), "cursor:"))
	if err != nil || index < 0 {
		return 0, fmt.Errorf("Invalid cursor for current pagination sort.")
	}
	return index, nil
}

// paginate slices items the way Admin API connections do: first is
// required, capped at 250, and after is an opaque cursor of a previous edge.
func paginate[T any](items []T, first *int32, after *string) (*connection[T], error) {
	if first == nil {
		return nil, errors.New("you must provide one of first or last")
	}
	if *first < 0 || *first > maxPageSize {
		return nil, fmt.Errorf("The first argument can't exceed %d and must be positive", maxPageSize)
	}
	start := 0
	if after != nil && *after != "" {
		index, err := decodeCursor(*after)
		if err != nil {
			return nil, err
		}
		start = index + 1
	}
	if start > len(items) {
		start = len(items)
	}
	end := start + int(*first)
	if end > len(items) {
		end = len(items)
	}

	conn := &connection[T]{
		Edges: make([]*edge[T], 0, end-start),
		Nodes: make([]T, 0, end-start),
		PageInfo: &pageInfo{
			HasNextPage:     end < len(items),
			HasPreviousPage: start > 0,
		},
	}
	for i := start; i < end; i++ {
		conn.Edges = append(conn.Edges, &edge[T]{Cursor: encodeCursor(i), Node: items[i]})
		conn.Nodes = append(conn.Nodes, items[i])
	}
	if len(conn.Edges) > 0 {
		startCursor, endCursor := conn.Edges[0].Cursor, conn.Edges[len(conn.Edges)-1].Cursor
		conn.PageInfo.StartCursor = &startCursor
		conn.PageInfo.EndCursor = &endCursor
	}
	return conn, nil
}
