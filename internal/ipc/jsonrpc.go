// Package ipc speaks newline-delimited JSON-RPC 2.0 in both directions over a
// pair of streams, as plugin hosts do over a child's stdin and stdout.
package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
)

// Handler serves the requests and notifications sent by the peer.
type Handler interface {
	// HandleRequest answers a request; the result is marshalled as the
	// response's result.
	HandleRequest(ctx context.Context, method string, params json.RawMessage) (interface{}, error)
	// HandleNotification receives notifications in arrival order.
	HandleNotification(ctx context.Context, method string, params json.RawMessage)
}

// Conn is a bidirectional JSON-RPC connection.
type Conn struct {
	wmu sync.Mutex
	enc *json.Encoder
	dec *json.Decoder

	mu      sync.Mutex
	nextID  int64
	pending map[string]chan *message
	closed  bool
}

// NewConn creates a connection reading from r and writing to w
func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{
		enc:     json.NewEncoder(w),
		dec:     json.NewDecoder(r),
		nextID:  1,
		pending: make(map[string]chan *message),
	}
}

// Serve reads messages until the stream ends. Responses are routed to their
// pending Call, requests are handled on their own goroutine and
// notifications are handled inline. Serve returns nil on a clean EOF.
func (c *Conn) Serve(ctx context.Context, h Handler) error {
	defer c.Close()

	for {
		var msg message
		if err := c.dec.Decode(&msg); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to decode message: %w", err)
		}

		switch {
		case msg.isRequest():
			go c.serveRequest(ctx, h, &msg)
		case msg.isNotification():
			h.HandleNotification(ctx, msg.Method, msg.Params)
		default:
			c.deliver(&msg)
		}
	}
}

func (c *Conn) serveRequest(ctx context.Context, h Handler, msg *message) {
	resp := Response{JSONRPC: "2.0", ID: msg.ID}

	result, err := h.HandleRequest(ctx, msg.Method, msg.Params)
	if err != nil {
		resp.Error = toRPCError(err)
	} else {
		data, err := json.Marshal(result)
		if err != nil {
			resp.Error = &RPCError{Code: CodeInternalError, Message: err.Error()}
		} else {
			resp.Result = data
		}
	}

	// the peer may be gone; nothing left to tell it
	_ = c.write(resp)
}

func (c *Conn) deliver(msg *message) {
	key := string(msg.ID)

	c.mu.Lock()
	ch, ok := c.pending[key]
	delete(c.pending, key)
	c.mu.Unlock()

	if ok {
		ch <- msg
	}
}

// Call sends a JSON-RPC request and waits for the response. When result is
// non-nil the response's result is unmarshalled into it.
func (c *Conn) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	ch := make(chan *message, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	id := json.RawMessage(strconv.FormatInt(c.nextID, 10))
	c.nextID++
	c.pending[string(id)] = ch
	c.mu.Unlock()

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}
	if err := c.write(req); err != nil {
		c.forget(id)
		return err
	}

	select {
	case <-ctx.Done():
		c.forget(id)
		return ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if resp.Error != nil {
			return resp.Error
		}
		if result == nil || len(resp.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
		return nil
	}
}

// Notify sends a request without waiting for response (notification)
func (c *Conn) Notify(method string, params interface{}) error {
	return c.write(Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
}

func (c *Conn) forget(id json.RawMessage) {
	c.mu.Lock()
	delete(c.pending, string(id))
	c.mu.Unlock()
}

func (c *Conn) write(v interface{}) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.enc.Encode(v)
}

// Close fails every pending call with ErrClosed. It does not close the
// underlying streams.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	return nil
}
