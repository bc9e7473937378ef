package http

import (
	"context"
)

// Client defines the read-only HTTP operations used against registries and
// the Node.js distribution server.
type Client interface {
	// GetJSON fetches url and decodes the JSON body into v.
	GetJSON(ctx context.Context, url string, v any) error

	// GetText fetches url and returns the body as a string.
	GetText(ctx context.Context, url string) (string, error)
}
