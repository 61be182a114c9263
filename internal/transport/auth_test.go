package transport

import (
	"net/http"
	"net/url"
	"testing"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req, "test-token")

	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

// TestBearerAuth tests Bearer token authentication.
func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req, "test-token")

	if got := req.Header.Get("Authorization"); got != "Bearer test-token" {
		t.Errorf("Expected Authorization header 'Bearer test-token', got '%s'", got)
	}
}

// TestQueryAuth tests API key as query parameter.
func TestQueryAuth(t *testing.T) {
	auth := &QueryAuth{Param: "key"}
	u, _ := url.Parse("http://pro.ip-api.com/json/1.2.3.4?fields=status")
	req := &http.Request{URL: u, Header: make(http.Header)}

	auth.Apply(req, "secret")

	if got := req.URL.Query().Get("key"); got != "secret" {
		t.Errorf("Expected key=secret, got '%s'", got)
	}
	if got := req.URL.Query().Get("fields"); got != "status" {
		t.Errorf("Expected existing fields param to be kept, got '%s'", got)
	}

	// nil URL must not panic
	auth.Apply(&http.Request{Header: make(http.Header)}, "secret")
}
