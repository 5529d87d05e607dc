package fetcher

import "net/http"

// HTTPClient is the part of *http.Client that Fetcher uses.
// Tests swap in a mock to script responses and failures.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
