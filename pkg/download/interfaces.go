package download

import (
	"context"
)

// Manager downloads remote artifacts into a local directory.
type Manager interface {
	// Fetch downloads a single item into opts.Dir and returns the absolute
	// local file path. Retries are bounded; a 404 is never retried.
	Fetch(ctx context.Context, item Item, opts Options) (string, error)
}

// Item represents one remote resource to download.
type Item struct {
	ID       string // identifier used in log output (e.g. "node@20.0.0")
	URL      string // source URL to download
	Filename string // preferred filename; if empty, the last URL path segment is used
}

// Options control the behavior of the download manager.
type Options struct {
	Dir string // destination directory. Must be absolute.
}
