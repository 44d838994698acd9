// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the caller does not request one.
const DefaultLimit = 20

// MaxLimit caps caller-supplied page sizes so a single request cannot pull
// an unbounded slice of the activity log.
const MaxLimit = 100

// Page holds parsed limit/offset values for a paged listing.
type Page struct {
	Limit  int64
	Offset int64
}

// Parse extracts "limit" and "offset" query parameters. Missing or invalid
// values fall back to DefaultLimit and 0; limit is clamped to [1, MaxLimit].
func Parse(r *http.Request) Page {
	p := Page{Limit: DefaultLimit, Offset: 0}

	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if s := query.Get(r, "offset"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			p.Offset = n
		}
	}

	return p
}
