package imagesearch

import (
	"context"
	"log"
	"strings"
)

// Searcher performs one image lookup.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Resolver turns a Searcher into a lookup that never fails. Errors are logged and
// reported to the caller as an empty URL.
type Resolver struct {
	searcher Searcher
	logf     func(format string, args ...any)
}

func NewResolver(searcher Searcher) *Resolver {
	return &Resolver{searcher: searcher, logf: log.Printf}
}

// Resolve returns the image URL for query, or "" when query is blank or the lookup fails.
func (r *Resolver) Resolve(ctx context.Context, query string) (imageURL string) {
	if strings.TrimSpace(query) == "" || r.searcher == nil {
		return ""
	}
	defer func() {
		if p := recover(); p != nil {
			r.logf("image search panic for %q: %v", query, p)
			imageURL = ""
		}
	}()

	found, err := r.searcher.Search(ctx, query)
	if err != nil {
		r.logf("image search failed for %q: %v", query, err)
		return ""
	}
	return found
}
