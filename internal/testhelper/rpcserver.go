package testhelper

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RPCServer is a fake JSON-RPC endpoint. Each method answers with a canned
// result; unknown methods answer with a method-not-found error.
type RPCServer struct {
	*httptest.Server

	mu      sync.Mutex
	results map[string]json.RawMessage
	calls   []string
}

// NewRPCServer starts an RPCServer that is closed when the test ends.
func NewRPCServer(t testing.TB) *RPCServer {
	t.Helper()

	s := &RPCServer{results: make(map[string]json.RawMessage)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle sets the raw JSON result returned for method.
func (s *RPCServer) Handle(method string, result []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[method] = json.RawMessage(result)
}

// Calls returns the methods received so far, in order.
func (s *RPCServer) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *RPCServer) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, req.Method)
	result, ok := s.results[req.Method]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"result":  result,
	})
}
