package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cperrin88/snm/pkg/auth"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/pnpm/8.5.0":
			_, _ = w.Write([]byte(`{"version":"8.5.0","dist":{"shasum":"abc"}}`))
		case "/broken":
			_, _ = w.Write([]byte(`{`))
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(5 * time.Second)
	ctx := context.Background()

	var doc struct {
		Version string `json:"version"`
		Dist    struct {
			Shasum string `json:"shasum"`
		} `json:"dist"`
	}
	require.NoError(t, c.GetJSON(ctx, srv.URL+"/pnpm/8.5.0", &doc))
	assert.Equal(t, "8.5.0", doc.Version)
	assert.Equal(t, "abc", doc.Dist.Shasum)

	err := c.GetJSON(ctx, srv.URL+"/missing", &doc)
	var nf *errors.ResourceNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, srv.URL+"/missing", nf.URL)

	assert.Error(t, c.GetJSON(ctx, srv.URL+"/broken", &doc))

	err = c.GetJSON(ctx, srv.URL+"/boom", &doc)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrResourceNotFound)
}

func TestGetText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("deadbeef  node-v20.0.0-linux-x64.tar.xz\n"))
	}))
	defer srv.Close()

	body, err := NewHTTPClient(time.Second).GetText(context.Background(), srv.URL+"/SHASUMS256.txt")
	require.NoError(t, err)
	assert.Contains(t, body, "node-v20.0.0-linux-x64.tar.xz")
}

func TestGet_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPClient(time.Second).GetText(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer npm_secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	anonymous := NewHTTPClient(time.Second)
	_, err := anonymous.GetText(context.Background(), srv.URL+"/private")
	require.Error(t, err)

	hosts := auth.Hosts{}
	hosts.Set(srv.URL, auth.BearerAuth{Token: "npm_secret"})
	body, err := NewHTTPClient(time.Second).WithAuth(hosts).GetText(context.Background(), srv.URL+"/private")
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
}
