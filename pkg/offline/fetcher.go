package offline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/simplelog/pkg/core"
)

// Fetcher is the network port.
type Fetcher interface {
	Fetch(ctx context.Context, req *http.Request) (*core.Response, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req *http.Request) (*core.Response, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, req *http.Request) (*core.Response, error) {
	return f(ctx, req)
}

// HTTPFetcher fetches resources over HTTP, resolving relative request URLs
// against Origin.
type HTTPFetcher struct {
	Origin *url.URL
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher for origin (e.g. "http://localhost:8000").
func NewHTTPFetcher(origin string, timeout time.Duration) (*HTTPFetcher, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("origin must be absolute: %q", origin)
	}
	return &HTTPFetcher{Origin: u, Client: &http.Client{Timeout: timeout}}, nil
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *http.Request) (*core.Response, error) {
	out := req.Clone(ctx)
	out.RequestURI = ""
	out.URL = f.Origin.ResolveReference(req.URL)
	out.Host = out.URL.Host

	resp, err := f.Client.Do(out)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", out.URL, err)
	}

	return &core.Response{
		URL:    out.URL.String(),
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}
