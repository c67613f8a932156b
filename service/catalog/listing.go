package catalog

import (
	"context"
	"errors"
	"fmt"

	"shopify.GO/core/admin"
	"shopify.GO/model/entity/product"
)

// StopReason records why a paginated read ended.
type StopReason int

const (
	// StopExhausted means the last page reported hasNextPage=false.
	StopExhausted StopReason = iota
	// StopNoResponse means a page came back without a payload.
	StopNoResponse
	// StopError means a page failed with a transport or GraphQL error.
	StopError
	// StopMissingCursor means a page claimed more results but gave no cursor.
	StopMissingCursor
)

func (r StopReason) String() string {
	switch r {
	case StopExhausted:
		return "exhausted"
	case StopNoResponse:
		return "no-response"
	case StopError:
		return "error"
	case StopMissingCursor:
		return "missing-cursor"
	}
	return fmt.Sprintf("StopReason(%d)", int(r))
}

// Listing is the outcome of reading a whole connection. Items holds
// everything accumulated before the stop, in server order.
type Listing[T any] struct {
	Items []T
	Pages int
	Stop  StopReason
	Err   error
}

// Complete reports whether every page was read.
func (l *Listing[T]) Complete() bool {
	return l.Stop == StopExhausted
}

// Failure is nil for a complete listing, otherwise the stop reason wrapping
// the cause.
func (l *Listing[T]) Failure() error {
	if l.Complete() {
		return nil
	}
	return fmt.Errorf("%s after %d pages: %w", l.Stop, l.Pages, l.Err)
}

// PageFunc fetches the page after the given cursor (nil for the first page).
type PageFunc[T any] func(ctx context.Context, after *string) ([]T, product.PageInfo, error)

// Collect walks a connection page by page, feeding each endCursor into the
// next call, until the server says there is nothing more or a page fails.
// Failures end the walk without discarding what was already read.
func Collect[T any](ctx context.Context, fetch PageFunc[T]) *Listing[T] {
	listing := &Listing[T]{Items: make([]T, 0)}
	var after *string
	for {
		items, info, err := fetch(ctx, after)
		if err != nil {
			listing.Err = err
			listing.Stop = StopError
			if errors.Is(err, admin.ErrNoData) {
				listing.Stop = StopNoResponse
			}
			return listing
		}
		listing.Pages++
		listing.Items = append(listing.Items, items...)

		if !info.HasNextPage {
			listing.Stop = StopExhausted
			return listing
		}
		next, ok := info.NextCursor()
		if !ok {
			listing.Stop = StopMissingCursor
			listing.Err = errors.New("page reported more results without an end cursor")
			return listing
		}
		after = &next
	}
}
