// Package auth applies registry credentials to outgoing requests.
//
// Credentials are configured per host, so a private npm mirror can need a
// token while nodejs.org stays anonymous.
package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/cperrin88/snm/pkg/errors"
)

// Authenticator adds credentials to a request.
type Authenticator interface {
	Apply(req *http.Request) error
	Type() Type
}

// Type names an authentication scheme.
type Type string

// Authentication types.
const (
	BasicAuthType  Type = "basic"
	HeaderAuthType Type = "header"
	BearerAuthType Type = "bearer"
)

// BasicAuth is HTTP Basic authentication.
type BasicAuth struct {
	Username string
	Password string
}

// HeaderAuth sets arbitrary headers, e.g. an API key.
type HeaderAuth struct {
	Headers map[string]string
}

// BearerAuth sends a token in the Authorization header, the way npm
// registries expect an auth token.
type BearerAuth struct {
	Token string
}

func (b BasicAuth) Apply(req *http.Request) error {
	req.SetBasicAuth(b.Username, b.Password)
	return nil
}

func (b BasicAuth) Type() Type { return BasicAuthType }

func (h HeaderAuth) Apply(req *http.Request) error {
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	return nil
}

func (h HeaderAuth) Type() Type { return HeaderAuthType }

func (b BearerAuth) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

func (b BearerAuth) Type() Type { return BearerAuthType }

// Credentials is the configuration form of an Authenticator.
type Credentials struct {
	Type     Type              `yaml:"type"`
	Username string            `yaml:"username,omitempty"`
	Password string            `yaml:"password,omitempty"`
	Token    string            `yaml:"token,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty"`
}

// Authenticator builds the authenticator described by c.
func (c Credentials) Authenticator() (Authenticator, error) {
	switch Type(strings.ToLower(string(c.Type))) {
	case BasicAuthType:
		if c.Username == "" {
			return nil, errors.Wrap(errors.ErrInvalidCredentials, "basic auth needs a username")
		}
		return BasicAuth{Username: c.Username, Password: c.Password}, nil
	case BearerAuthType:
		if c.Token == "" {
			return nil, errors.Wrap(errors.ErrInvalidCredentials, "bearer auth needs a token")
		}
		return BearerAuth{Token: c.Token}, nil
	case HeaderAuthType:
		if len(c.Headers) == 0 {
			return nil, errors.Wrap(errors.ErrInvalidCredentials, "header auth needs at least one header")
		}
		return HeaderAuth{Headers: c.Headers}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidCredentials, "unknown auth type %q", c.Type)
	}
}

// Hosts selects an authenticator by request host. Requests to other hosts
// are sent unchanged.
type Hosts map[string]Authenticator

// Apply applies the authenticator registered for req's host, if any.
func (h Hosts) Apply(req *http.Request) error {
	if a, ok := h[strings.ToLower(req.URL.Host)]; ok {
		return a.Apply(req)
	}
	return nil
}

// Set registers a for the host of rawURL, or for rawURL itself when it is a
// bare host name.
func (h Hosts) Set(rawURL string, a Authenticator) {
	h[HostOf(rawURL)] = a
}

// HostOf returns the lower-cased host[:port] of rawURL.
func HostOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return strings.ToLower(u.Host)
	}
	return strings.ToLower(strings.TrimSuffix(rawURL, "/"))
}
