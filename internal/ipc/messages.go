package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Standard JSON-RPC 2.0 error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

var (
	// ErrClosed is returned by calls pending when the connection goes away
	ErrClosed = errors.New("connection closed")

	// ErrMethodNotFound is returned by handlers for methods they don't serve
	ErrMethodNotFound = errors.New("method not found")
)

// Request represents a JSON-RPC 2.0 request. Notifications have no ID.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  interface{}     `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements the error interface for RPCError
func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error: code=%d, message=%s", e.Code, e.Message)
}

// message is the union of everything that can arrive on the wire.
type message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

func (m *message) isRequest() bool {
	return m.Method != "" && hasID(m.ID)
}

func (m *message) isNotification() bool {
	return m.Method != "" && !hasID(m.ID)
}

func hasID(id json.RawMessage) bool {
	return len(id) > 0 && string(id) != "null"
}

// toRPCError maps a handler error onto the wire error object.
func toRPCError(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	if errors.Is(err, ErrMethodNotFound) {
		return &RPCError{Code: CodeMethodNotFound, Message: err.Error()}
	}
	return &RPCError{Code: CodeInternalError, Message: err.Error()}
}
