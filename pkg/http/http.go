// Package http is a small client for registry metadata and checksum files.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cperrin88/snm/pkg/auth"
	"github.com/cperrin88/snm/pkg/errors"
)

// UserAgent is sent with every request.
const UserAgent = "snm/1.0"

// maxMetadataSize bounds metadata bodies. Full npm packuments exceed 40MB.
const maxMetadataSize = 256 << 20

// HTTPClient handles metadata requests.
type HTTPClient struct {
	client    *http.Client
	userAgent string
	auth      auth.Hosts
}

// NewHTTPClient creates a new HTTP client with the given per-request timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: UserAgent,
	}
}

// WithAuth applies per-host credentials to every request.
func (hc *HTTPClient) WithAuth(hosts auth.Hosts) *HTTPClient {
	hc.auth = hosts
	return hc
}

// GetJSON fetches url and decodes its JSON body into v.
func (hc *HTTPClient) GetJSON(ctx context.Context, url string, v any) error {
	body, err := hc.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	if err := json.NewDecoder(io.LimitReader(body, maxMetadataSize)).Decode(v); err != nil {
		return errors.Wrapf(err, "failed to decode %s", url)
	}
	return nil
}

// GetText fetches url and returns its body.
func (hc *HTTPClient) GetText(ctx context.Context, url string) (string, error) {
	body, err := hc.get(ctx, url, "text/plain")
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(io.LimitReader(body, maxMetadataSize))
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}
	return string(data), nil
}

func (hc *HTTPClient) get(ctx context.Context, url, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", hc.userAgent)
	req.Header.Set("Accept", accept)
	if err := hc.auth.Apply(req); err != nil {
		return nil, errors.Wrap(err, "failed to apply credentials")
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", url)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, errors.NewResourceNotFoundError(url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}
