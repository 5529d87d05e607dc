package fetcher

import (
	"net/http"
	"sort"
	"strings"
)

// Field is a single response header line.
type Field struct {
	Name  string
	Value string
}

// Header is a list of header fields in the order the server sent them.
// Names keep the case they had on the wire; lookups ignore case.
type Header []Field

// Get returns the first value for name, or "" if there is none.
func (h Header) Get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Values returns every value for name, in order.
func (h Header) Values(name string) []string {
	var values []string
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// headerFromHTTP flattens an http.Header. The map has no order, so keys are
// sorted to keep the output stable.
func headerFromHTTP(h http.Header) Header {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Header, 0, len(keys))
	for _, k := range keys {
		for _, v := range h[k] {
			out = append(out, Field{Name: k, Value: v})
		}
	}
	return out
}

// Response is the result of a single fetch. The body has been read in full.
type Response struct {
	URL        string // Final URL, after redirects
	Proto      string // e.g. "HTTP/1.1"
	StatusCode int    // e.g. 200
	Status     string // e.g. "200 OK"
	Header     Header
	Body       []byte
}
