// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows returned by list endpoints.
const PageSize = 50

// MaxPageSize caps the "limit" query parameter.
const MaxPageSize = 200

// ErrBadCursor is returned by ParseBefore for a malformed "before" value.
var ErrBadCursor = errors.New(`"before" must be an RFC 3339 timestamp`)

// ParseLimit extracts the "limit" query parameter, clamped to
// [1, MaxPageSize]. Returns PageSize if not present or invalid.
func ParseLimit(r *http.Request) int {
	s := query.Get(r, "limit")
	if s == "" {
		return PageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// LimitPlusOne returns limit+1 as int64 for look-ahead pagination
// (fetch one extra document to detect whether more exist).
func LimitPlusOne(limit int) int64 { return int64(limit + 1) }

// ParseBefore extracts the "before" cursor. A missing value yields the zero
// time, which callers treat as "newest".
func ParseBefore(r *http.Request) (time.Time, error) {
	s := query.Get(r, "before")
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, ErrBadCursor
	}
	return t, nil
}

// TrimOldest trims a look-ahead fetch that is ordered oldest first.
// Call this after fetching limit+1 rows. When the extra row is present it is
// the oldest one, so it is dropped from the front and HasMore is reported.
func TrimOldest[T any](rows *[]T, limit int) (hasMore bool) {
	if len(*rows) > limit {
		*rows = (*rows)[len(*rows)-limit:]
		return true
	}
	return false
}

// TrimNewest is like TrimOldest for rows ordered newest first: the extra
// row is dropped from the end.
func TrimNewest[T any](rows *[]T, limit int) (hasMore bool) {
	if len(*rows) > limit {
		*rows = (*rows)[:limit]
		return true
	}
	return false
}

// Reverse reverses a slice in place.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}
