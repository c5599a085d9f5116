package domain

import "errors"

// Recoverable failure classes of the crawl pipeline. None of them stops a
// crawl; they are reported and the unit of work is skipped.
var (
	// ErrNetworkFailure means a fetch failed or returned an empty body.
	ErrNetworkFailure = errors.New("network failure")
	// ErrMalformedRecord means a question container lacked an expected sub-node.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrMissingRequiredField means a record had an empty required field.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrImageFetchFailure means an embedded image could not be fetched.
	ErrImageFetchFailure = errors.New("image fetch failure")
)
