package router

import (
	"net/http"
	"time"
)

// Transport issues the HTTP call appropriate to the execution context. It is
// selected once at construction, not branched on per request.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// BrowserTransport issues requests through a process-global HTTP client, the
// way a browser-context caller would.
type BrowserTransport struct {
	client *http.Client
}

// NewBrowserTransport creates a browser-context transport. A nil client gets
// a default with a 30 second timeout.
func NewBrowserTransport(client *http.Client) *BrowserTransport {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &BrowserTransport{client: client}
}

// Do executes the request.
func (t *BrowserTransport) Do(req *http.Request) (*http.Response, error) {
	return t.client.Do(req)
}

// ServerTransport is the request-scoped transport used when rendering on the
// server: it forwards the inbound request's cookies and identity headers so
// the backend sees the original caller.
type ServerTransport struct {
	client  *http.Client
	forward http.Header
}

// NewServerTransport creates a server-context transport that stamps the given
// headers (typically Cookie and identity headers copied from the inbound
// request) onto every outgoing call.
func NewServerTransport(client *http.Client, forward http.Header) *ServerTransport {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ServerTransport{client: client, forward: forward}
}

// Do executes the request with the forwarded headers applied. Headers already
// set on the request are not overwritten.
func (t *ServerTransport) Do(req *http.Request) (*http.Response, error) {
	for key, values := range t.forward {
		if req.Header.Get(key) != "" {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return t.client.Do(req)
}
