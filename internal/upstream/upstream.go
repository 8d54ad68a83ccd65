package upstream

import (
	"context"

	"github.com/ametow/leakgate/internal/domain"
)

// Client performs one search call against the external leak-search API.
// Implementations inject the server-held token; callers never see it.
type Client interface {
	Search(ctx context.Context, req domain.SearchRequest) (*Result, error)
}

// Result is the upstream response body. JSON reports whether the body
// decoded as JSON; when it did not, Text carries the body verbatim and
// Raw is nil.
type Result struct {
	Raw  any
	Text string
	JSON bool
}
