package client

// Gist is a public gist as returned by GET /users/{user}/gists.
// Only the fields the listing page reads are decoded; everything else in the
// upstream record is ignored.
type Gist struct {
	ID string `json:"id"`

	// Description is empty when GitHub reports null or "".
	Description string `json:"description"`

	HTMLURL string `json:"html_url"`
}

// ListResult is a completed gist listing exchange.
type ListResult struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int

	// Gists is the decoded response body, possibly empty.
	Gists []Gist
}
