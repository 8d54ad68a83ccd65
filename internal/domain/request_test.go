package domain

import (
	"errors"
	"testing"
)

func TestParseSearchRequest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		allowAlias bool
		want       SearchRequest
		wantErr    error
	}{
		{
			name: "defaults applied",
			body: `{"query":"john@example.com"}`,
			want: SearchRequest{Query: "john@example.com", Limit: 100, Lang: "en", Type: "json"},
		},
		{
			name: "explicit values kept",
			body: `{"query":"john","limit":250,"lang":"ru","type":"short"}`,
			want: SearchRequest{Query: "john", Limit: 250, Lang: "ru", Type: "short"},
		},
		{
			name: "limit above maximum is capped not rejected",
			body: `{"query":"john","limit":999999}`,
			want: SearchRequest{Query: "john", Limit: 10000, Lang: "en", Type: "json"},
		},
		{
			name: "limit at maximum passes through",
			body: `{"query":"john","limit":10000}`,
			want: SearchRequest{Query: "john", Limit: 10000, Lang: "en", Type: "json"},
		},
		{
			name: "explicit zero limit clamps to one",
			body: `{"query":"john","limit":0}`,
			want: SearchRequest{Query: "john", Limit: 1, Lang: "en", Type: "json"},
		},
		{
			name: "negative limit clamps to one",
			body: `{"query":"john","limit":-5}`,
			want: SearchRequest{Query: "john", Limit: 1, Lang: "en", Type: "json"},
		},
		{
			name:    "missing query",
			body:    `{"limit":10}`,
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "whitespace query",
			body:    `{"query":"   "}`,
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "malformed body",
			body:    `{"query":`,
			wantErr: ErrInvalidBody,
		},
		{
			name:    "non-numeric limit",
			body:    `{"query":"john","limit":"lots"}`,
			wantErr: ErrInvalidBody,
		},
		{
			name:    "request alias rejected by default",
			body:    `{"request":"john"}`,
			wantErr: ErrEmptyQuery,
		},
		{
			name:       "request alias accepted when enabled",
			body:       `{"request":"john"}`,
			allowAlias: true,
			want:       SearchRequest{Query: "john", Limit: 100, Lang: "en", Type: "json"},
		},
		{
			name:       "query wins over alias",
			body:       `{"query":"jane","request":"john"}`,
			allowAlias: true,
			want:       SearchRequest{Query: "jane", Limit: 100, Lang: "en", Type: "json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSearchRequest([]byte(tt.body), tt.allowAlias)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseSearchRequest() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseSearchRequest() unexpected error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("ParseSearchRequest() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestUpstreamStatusErrorTruncatesBody(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}

	err := NewUpstreamStatusError(503, string(long))

	if got := len([]rune(err.Body)); got != MaxErrorBodyLength+1 {
		t.Errorf("Body length = %d runes, want %d plus ellipsis", got, MaxErrorBodyLength)
	}
	if err.Body[:10] != "xxxxxxxxxx" {
		t.Errorf("Body should keep the leading content")
	}
}
