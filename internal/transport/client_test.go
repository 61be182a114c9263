package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/geomap/pkg/errors"
)

func TestCall(t *testing.T) {
	t.Run("sends a JSON-RPC 2.0 envelope", func(t *testing.T) {
		var got rpcRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[{"pubkey":"A"}]}`))
		}))
		defer server.Close()

		c := New(WithAuth(&BearerAuth{}, "token"))
		var result []map[string]string
		require.NoError(t, c.Call(context.Background(), server.URL, "getClusterNodes", &result))

		assert.Equal(t, "2.0", got.JSONRPC)
		assert.Equal(t, 1, got.ID)
		assert.Equal(t, "getClusterNodes", got.Method)
		assert.NotNil(t, got.Params)
		assert.Empty(t, got.Params)
		assert.Equal(t, "A", result[0]["pubkey"])
	})

	t.Run("rpc error member", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`))
		}))
		defer server.Close()

		var result any
		err := New().Call(context.Background(), server.URL, "nope", &result)
		var rpcErr *RPCError
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, -32601, rpcErr.Code)
	})

	t.Run("missing result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
		}))
		defer server.Close()

		var result any
		err := New().Call(context.Background(), server.URL, "getVoteAccounts", &result)
		assert.ErrorIs(t, err, ErrEmptyResult)
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer server.Close()

		var result any
		err := New().Call(context.Background(), server.URL, "getClusterNodes", &result)
		var apiErr *errors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "upstream down")
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer server.Close()

		var result any
		err := New().Call(context.Background(), server.URL, "getClusterNodes", &result)
		var parseErr *errors.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestGetAppliesQueryAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	c := New(WithAuth(&QueryAuth{Param: "key"}, "secret"))
	resp, err := c.Get(context.Background(), server.URL+"/json/1.2.3.4")
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, DecodeResponse(resp, &body))
	assert.Equal(t, "success", body["status"])
}

func TestWithHTTPClientIgnoresNil(t *testing.T) {
	c := New(WithHTTPClient(nil))
	assert.NotNil(t, c.http)
	assert.Equal(t, DefaultHTTPTimeout, c.http.Timeout)
}
