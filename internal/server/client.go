package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mrange/mandelfield"
	"github.com/mrange/mandelfield/rasterio"
)

// maxReplyBytes bounds the size of one reply read by the client.
const maxReplyBytes = DefaultMaxPixels/8 + 1<<10

// Client requests fields from a Handler over one connection.
//
// Thread safety: Client is NOT thread-safe. Requests on one connection
// are answered in order, so callers must not overlap Fetch calls.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to a field server at url, e.g. "ws://localhost:8080/field".
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("server: dial %s: %w", url, err)
	}
	conn.SetReadLimit(maxReplyBytes)
	return &Client{conn: conn}, nil
}

// Fetch sends req and waits for the field.
func (c *Client) Fetch(ctx context.Context, req Request) (*mandelfield.Bitmap, error) {
	if err := wsjson.Write(ctx, c.conn, req); err != nil {
		return nil, fmt.Errorf("server: send request: %w", err)
	}

	typ, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("server: read reply: %w", err)
	}

	if typ == websocket.MessageText {
		var reply ErrorReply
		if err := json.Unmarshal(data, &reply); err != nil {
			return nil, fmt.Errorf("server: decode error reply: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrRemote, reply.Error)
	}

	if req.Compress {
		if data, err = rasterio.Decompress(data); err != nil {
			return nil, err
		}
	}
	return rasterio.DecodePBM(bytes.NewReader(data))
}

// Close closes the connection normally.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// Fetch dials url, requests one field and closes the connection.
func Fetch(ctx context.Context, url string, req Request) (*mandelfield.Bitmap, error) {
	c, err := Dial(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()
	return c.Fetch(ctx, req)
}
