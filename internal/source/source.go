// Package source opens tree descriptions and scripts from local paths or
// http(s) URLs.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/brettbedarf/vfshell/internal/util"
)

// ErrBadURL is returned for an http(s) location that cannot be fetched from.
var ErrBadURL = errors.New("invalid source URL")

// HTTPClient is the part of [http.Client] used to fetch remote sources.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Opener opens locations. Remote locations are fetched with a GET request.
type Opener struct {
	Client  HTTPClient
	Headers map[string]string
}

// Default uses [http.DefaultClient].
var Default = &Opener{Client: http.DefaultClient}

// Open opens loc with [Default].
func Open(ctx context.Context, loc string) (io.ReadCloser, error) {
	return Default.Open(ctx, loc)
}

// IsRemote reports whether loc looks like an http(s) URL.
func IsRemote(loc string) bool {
	loc = strings.ToLower(strings.TrimSpace(loc))
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// Open returns a reader for loc. A missing local file or a 404 response both
// wrap [fs.ErrNotExist].
func (o *Opener) Open(ctx context.Context, loc string) (io.ReadCloser, error) {
	if !IsRemote(loc) {
		return os.Open(loc)
	}
	u, err := parseURL(loc)
	if err != nil {
		return nil, err
	}
	return o.fetch(ctx, u)
}

func (o *Opener) fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	logger := util.GetLogger("Source.fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range o.Headers {
		req.Header.Set(k, v)
	}

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	logger.Debug().Str("url", u.String()).Int("status", resp.StatusCode).Msg("Fetched source")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, &fs.PathError{Op: "fetch", Path: u.String(), Err: fs.ErrNotExist}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", u, resp.Status)
	}
	return resp.Body, nil
}

func parseURL(loc string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(loc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrBadURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrBadURL)
	}
	if u.User != nil {
		return nil, fmt.Errorf("%w: user info is not allowed", ErrBadURL)
	}
	return u, nil
}
