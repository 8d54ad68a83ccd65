package domain

import (
	"encoding/json"
	"strings"
)

const (
	DefaultLimit = 100
	MaxLimit     = 10000
	DefaultLang  = "en"
	DefaultType  = "json"
)

// SearchRequest is a normalized inbound query. It is built once per call
// and never mutated afterwards.
type SearchRequest struct {
	Query string
	Limit int
	Lang  string
	Type  string
}

func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// Normalize applies defaults and clamps the limit to [1, MaxLimit].
// Out-of-range limits are capped, not rejected.
func (r *SearchRequest) Normalize() {
	if r.Limit == 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Limit < 1 {
		r.Limit = 1
	}
	if r.Lang == "" {
		r.Lang = DefaultLang
	}
	if r.Type == "" {
		r.Type = DefaultType
	}
}

type rawSearchRequest struct {
	Query   string `json:"query"`
	Request string `json:"request"`
	Limit   *int   `json:"limit"`
	Lang    string `json:"lang"`
	Type    string `json:"type"`
}

// ParseSearchRequest decodes an inbound JSON body into a normalized
// SearchRequest. When allowRequestAlias is set, "request" is accepted as an
// alternate name for "query"; existing callers of the function deployment
// depend on that spelling, so the alias is confined to that one entry point.
func ParseSearchRequest(body []byte, allowRequestAlias bool) (*SearchRequest, error) {
	var raw rawSearchRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ErrInvalidBody
	}

	query := raw.Query
	if query == "" && allowRequestAlias {
		query = raw.Request
	}

	req := &SearchRequest{
		Query: query,
		Lang:  raw.Lang,
		Type:  raw.Type,
	}
	if raw.Limit != nil {
		req.Limit = *raw.Limit
		if req.Limit < 1 {
			// explicit zero stays a request for the minimum, not the default
			req.Limit = 1
		}
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Normalize()

	return req, nil
}
