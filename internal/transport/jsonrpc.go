package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentstation/geomap/pkg/errors"
)

// rpcVersion is the JSON-RPC protocol version sent with every call.
const rpcVersion = "2.0"

// ErrEmptyResult is returned when a JSON-RPC response has neither a result nor an error.
var ErrEmptyResult = errors.New("empty result")

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error implements the error interface
func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Call invokes method on a JSON-RPC 2.0 endpoint and decodes the result member
// into result. Calls are numbered with id 1; they are never batched.
func (c *Client) Call(ctx context.Context, endpoint, method string, result any, params ...any) error {
	if params == nil {
		params = []any{}
	}

	resp, err := c.PostJSON(ctx, endpoint, rpcRequest{
		JSONRPC: rpcVersion,
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	var envelope rpcResponse
	if err := DecodeResponse(resp, &envelope); err != nil {
		return err
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if len(envelope.Result) == 0 || bytes.Equal(envelope.Result, []byte("null")) {
		return ErrEmptyResult
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return errors.WrapParse("json", method+" result", err)
	}
	return nil
}
