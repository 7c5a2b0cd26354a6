package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Transport frames line-delimited JSON-RPC messages over a reader/writer
// pair (stdio in practice). Writes are serialized; reads are single-caller.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex
}

// NewTransport creates a transport over r and w.
func NewTransport(r io.Reader, w io.Writer) *Transport {
	return &Transport{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// ReadRequest reads the next JSON-RPC request, blocking until one arrives.
// Returns io.EOF when the peer closes the stream.
func (t *Transport) ReadRequest() (*Request, error) {
	line, err := t.reader.ReadBytes('\n')
	if err != nil {
		return nil, err
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	return &req, nil
}

// WriteResponse writes a single response followed by a newline.
func (t *Transport) WriteResponse(resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = fmt.Fprintf(t.writer, "%s\n", data)
	return err
}

// WriteNotification writes a server-initiated notification.
func (t *Transport) WriteNotification(method string, params any) error {
	var raw json.RawMessage
	if params != nil {
		var err error
		raw, err = json.Marshal(params)
		if err != nil {
			return err
		}
	}

	data, err := json.Marshal(Notification{JSONRPC: "2.0", Method: method, Params: raw})
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = fmt.Fprintf(t.writer, "%s\n", data)
	return err
}
