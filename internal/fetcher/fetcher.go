// Package fetcher performs the single GET exchange behind hfetch.
package fetcher

import (
	"context"
	"io"
	"net/http"

	"github.com/go-logr/logr"

	hfetcherrors "github.com/princespaghetti/hfetch/internal/errors"
)

const (
	// DefaultURL is fetched when no target address is given.
	DefaultURL = "https://hyper.rs"

	// DefaultUserAgent identifies hfetch when no version is stamped in.
	DefaultUserAgent = "hfetch/dev"
)

// Fetcher issues GET requests and reads their responses in full.
type Fetcher struct {
	client HTTPClient

	// UserAgent is sent with every request.
	UserAgent string
}

// NewFetcher creates a new Fetcher with the given HTTP client.
// If client is nil, uses NewClient so that header order is preserved.
func NewFetcher(client HTTPClient) *Fetcher {
	if client == nil {
		client = NewClient()
	}
	return &Fetcher{
		client:    client,
		UserAgent: DefaultUserAgent,
	}
}

// Fetch sends one GET request to url and returns the response with its body
// already read and closed. Any failure is returned as a
// *errors.TransportError naming the stage that failed. HTTP error statuses
// are not failures.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	log := logr.FromContextOrDiscard(ctx)

	ctx, capture := withCapture(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &hfetcherrors.TransportError{Op: "create request", URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.UserAgent)

	log.V(1).Info("Sending request", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &hfetcherrors.TransportError{Op: "send request", URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // Ignore close error - body already read
	log.V(1).Info("Received response", "proto", resp.Proto, "status", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &hfetcherrors.TransportError{Op: "read body", URL: url, Err: err}
	}
	log.V(1).Info("Read body", "bytes", len(body))

	header := headerFromHTTP(resp.Header)
	if statusCode, fields, ok := capture.last(); ok && statusCode == resp.StatusCode {
		header = fields
	} else {
		log.V(1).Info("Wire header order unavailable, sorting header names")
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Response{
		URL:        finalURL,
		Proto:      resp.Proto,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     header,
		Body:       body,
	}, nil
}
