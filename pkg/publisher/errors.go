package publisher

import "errors"

// Business errors surfaced by the pipeline. They propagate untouched to
// the retry executor, which is the only layer deciding terminal vs retry.
var (
	// ErrUnsupportedCategory means the listing category has no mapping
	// on the target site. Retrying cannot fix this; it is still retried
	// like any other failure (see DESIGN.md).
	ErrUnsupportedCategory = errors.New("unsupported category")

	// ErrUploadFailed is the distinct user-facing error for any failure
	// inside the photo upload widget.
	ErrUploadFailed = errors.New("could not complete the photo upload")

	// ErrLoginUnconfirmed covers the indeterminate case where neither
	// the authenticated area nor an error banner appeared, typically an
	// anti-bot challenge or timeout.
	ErrLoginUnconfirmed = errors.New("could not confirm authentication (possible challenge or timeout)")
)
