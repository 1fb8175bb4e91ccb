package fetcher

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/go-github/v81/github"
)

// Cursor addresses one page of a listing. GitHub REST endpoints advance by
// page number (Link rel="next"); a few advance by an opaque After cursor.
type Cursor struct {
	Page  int
	After string
}

func (c Cursor) String() string {
	if c.After != "" {
		return "after=" + c.After
	}
	if c.Page == 0 {
		return "page=1"
	}
	return fmt.Sprintf("page=%d", c.Page)
}

// ListFunc fetches the page addressed by cursor.
type ListFunc[T any] func(ctx context.Context, cursor Cursor) ([]T, *github.Response, error)

// nextCursor returns the cursor for the page after resp, or false at the end.
func nextCursor(resp *github.Response) (Cursor, bool) {
	if resp == nil {
		return Cursor{}, false
	}
	if resp.After != "" {
		return Cursor{After: resp.After}, true
	}
	if resp.NextPage != 0 {
		return Cursor{Page: resp.NextPage}, true
	}
	return Cursor{}, false
}

// Paginate returns a lazy, single-pass sequence over every record of a
// listing. Pages are requested only as the sequence is consumed, each through
// Do, so a rate-limited page is retried in place and yields its records once.
//
// On failure the sequence yields a single (zero, err) pair and ends. Ranging
// over it again issues the requests again.
func Paginate[T any](ctx context.Context, f *Fetcher, resource string, list ListFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		cursor := Cursor{}
		seen := map[Cursor]struct{}{cursor: {}}

		for {
			var (
				page []T
				resp *github.Response
			)
			pageResource := resource + "?" + cursor.String()
			err := f.Do(ctx, pageResource, func(ctx context.Context) (*github.Response, error) {
				var err error
				page, resp, err = list(ctx, cursor)
				return resp, err
			})
			if err != nil {
				yield(zero, err)
				return
			}

			for _, item := range page {
				if !yield(item, nil) {
					return
				}
			}

			next, ok := nextCursor(resp)
			if !ok {
				return
			}
			if _, dup := seen[next]; dup {
				yield(zero, &FetchError{Resource: pageResource, Kind: KindOther, Err: errPaginationStalled})
				return
			}
			seen[next] = struct{}{}
			cursor = next
		}
	}
}

// Collect drains a sequence into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
