package domain

// QueryResult pairs the raw upstream payload with its human-readable
// digest. Raw is the decoded JSON value, or the verbatim body text when
// the upstream answered with something that is not JSON.
type QueryResult struct {
	Raw     any    `json:"raw"`
	Summary string `json:"summary"`
}
