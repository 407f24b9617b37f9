package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dudedrops/dudes-api/internal/apperr"
)

type jsonRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *JSONRPCError   `json:"error"`
}

// JSONRPCError is the error member of a JSON-RPC 2.0 response.
type JSONRPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// CallJSONRPC invokes method on the base URL and decodes the result member
// into out. An error envelope is classified inside the attempt, so a
// not-found envelope is retried under TolerateIndexLag like a 404.
func (c *Client) CallJSONRPC(ctx context.Context, method string, params interface{}, label string, out interface{}, opts ...CallOption) error {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	decode := func(body []byte) error {
		var resp jsonRPCResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return apperr.Wrap(err, apperr.KindUnknown, "decode rpc envelope")
		}
		if resp.Error != nil {
			return classifyRPCError(resp.Error)
		}
		if out == nil || len(resp.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return apperr.Wrap(err, apperr.KindUnknown, fmt.Sprintf("decode %s result", method))
		}
		return nil
	}
	return c.Call(ctx, "", req, label, nil, append(opts, withDecoder(decode))...)
}

func classifyRPCError(e *JSONRPCError) error {
	msg := strings.ToLower(e.Message)
	if strings.Contains(msg, "not found") || strings.Contains(msg, "not exist") {
		return apperr.Wrap(e, apperr.KindNotFound, e.Message)
	}
	return apperr.Wrap(e, apperr.KindUnavailable, e.Message)
}
