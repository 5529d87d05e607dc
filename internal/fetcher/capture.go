package fetcher

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// maxRecordedHeaderBytes bounds how much of a connection is buffered while
// looking for the end of the response header block.
const maxRecordedHeaderBytes = 1 << 20

// headerCapture receives the raw header block of the final response read on
// the connections dialed for one request.
type headerCapture struct {
	mu         sync.Mutex
	statusCode int
	fields     Header
	ok         bool
}

func (c *headerCapture) store(statusCode int, fields Header) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusCode = statusCode
	c.fields = fields
	c.ok = true
}

// last returns the most recently stored header block.
func (c *headerCapture) last() (int, Header, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusCode, c.fields, c.ok
}

type captureKey struct{}

// withCapture returns a context that makes connections dialed by NewClient
// record into the returned capture.
func withCapture(ctx context.Context) (context.Context, *headerCapture) {
	c := &headerCapture{}
	return context.WithValue(ctx, captureKey{}, c), c
}

func captureFrom(ctx context.Context) *headerCapture {
	c, _ := ctx.Value(captureKey{}).(*headerCapture)
	return c
}

// NewClient returns an HTTP client that keeps response headers in wire order.
//
// net/http parses headers into a map, so the order is recovered by recording
// the bytes read from each connection. That only works on plain HTTP/1.1
// streams we dial ourselves: the client speaks HTTP/1.1 only, never uses a
// proxy, and opens a fresh connection for every request so the last block
// recorded belongs to the final response of a redirect chain.
func NewClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 nil,
		DisableKeepAlives:     true,
		ExpectContinueTimeout: 1 * time.Second,
		TLSNextProto:          map[string]func(string, *tls.Conn) http.RoundTripper{},
	}

	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		return recordTo(ctx, conn), nil
	}

	transport.DialTLSContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		rawConn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		cfg := transport.TLSClientConfig.Clone()
		if cfg == nil {
			cfg = &tls.Config{}
		}
		if cfg.ServerName == "" {
			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				host = addr
			}
			cfg.ServerName = host
		}
		cfg.NextProtos = []string{"http/1.1"}

		tlsConn := tls.Client(rawConn, cfg)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			_ = rawConn.Close()
			return nil, err
		}
		return recordTo(ctx, tlsConn), nil
	}

	return &http.Client{Transport: transport}
}

func recordTo(ctx context.Context, conn net.Conn) net.Conn {
	capture := captureFrom(ctx)
	if capture == nil {
		return conn
	}
	return &recordingConn{Conn: conn, capture: capture}
}

// recordingConn copies what it reads until it has seen a complete final
// header block, then passes reads straight through.
type recordingConn struct {
	net.Conn
	capture *headerCapture
	buf     []byte
	scanned int // bytes of buf already searched for the end of a block
	done    bool
}

func (c *recordingConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	if n > 0 && !c.done {
		c.observe(p[:n])
	}
	return n, err
}

func (c *recordingConn) observe(b []byte) {
	c.buf = append(c.buf, b...)

	for !c.done {
		block, consumed, found := cutHeaderBlock(c.buf, c.scanned)
		if !found {
			if len(c.buf) > maxRecordedHeaderBytes {
				c.stop()
				return
			}
			// A terminator split across reads starts at most two bytes back.
			c.scanned = max(len(c.buf)-2, 0)
			return
		}
		c.buf = c.buf[consumed:]
		c.scanned = 0

		statusCode, fields, ok := parseHeaderBlock(block)
		if !ok {
			c.stop()
			return
		}
		// Interim responses are followed by another block on the same
		// connection. 101 ends HTTP on the connection, so it counts as final.
		if statusCode >= 100 && statusCode < 200 && statusCode != http.StatusSwitchingProtocols {
			continue
		}
		c.capture.store(statusCode, fields)
		c.stop()
	}
}

func (c *recordingConn) stop() {
	c.done = true
	c.buf = nil
	c.scanned = 0
}

// cutHeaderBlock finds the first empty line in b, searching from offset from.
// It returns the bytes before it and how many bytes the block and the empty
// line take up together. Bare LF line endings are accepted, as net/http
// accepts them.
func cutHeaderBlock(b []byte, from int) (block []byte, consumed int, found bool) {
	for i := from; i < len(b); i++ {
		if b[i] != '\n' {
			continue
		}
		rest := b[i+1:]
		switch {
		case len(rest) >= 1 && rest[0] == '\n':
			return b[:i+1], i + 2, true
		case len(rest) >= 2 && rest[0] == '\r' && rest[1] == '\n':
			return b[:i+1], i + 3, true
		}
	}
	return nil, 0, false
}

// parseHeaderBlock splits a status line and its header lines. Continuation
// lines (obsolete folding) are joined onto the previous value with a space.
func parseHeaderBlock(block []byte) (int, Header, bool) {
	lines := strings.Split(strings.TrimRight(string(block), "\r\n"), "\n")
	if len(lines) == 0 {
		return 0, nil, false
	}

	statusLine := strings.TrimRight(lines[0], "\r")
	parts := strings.SplitN(statusLine, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/") {
		return 0, nil, false
	}
	statusCode, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 3 {
		return 0, nil, false
	}

	fields := make(Header, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if len(fields) > 0 {
				last := &fields[len(fields)-1]
				last.Value = strings.TrimSpace(last.Value + " " + strings.TrimSpace(line))
			}
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" {
			continue
		}
		fields = append(fields, Field{Name: name, Value: strings.TrimSpace(value)})
	}

	return statusCode, fields, true
}
