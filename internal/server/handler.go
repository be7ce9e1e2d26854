package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mrange/mandelfield"
	"github.com/mrange/mandelfield/rasterio"
)

const (
	// DefaultTimeout bounds the time spent computing one field.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPixels bounds the size of one field.
	DefaultMaxPixels = 8192 * 8192

	// requestReadLimit bounds the size of one JSON request.
	requestReadLimit = 4096
)

// Option configures a Handler.
type Option func(*Handler)

// WithTimeout sets the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.timeout = d
	}
}

// WithMaxPixels sets the largest accepted Width*Height. Values above
// mandelfield.MaxPixels have no further effect.
func WithMaxPixels(n int) Option {
	return func(h *Handler) {
		h.maxPixels = n
	}
}

// WithOriginPatterns sets the origins accepted for cross-origin connections.
func WithOriginPatterns(patterns ...string) Option {
	return func(h *Handler) {
		h.origins = patterns
	}
}

// Handler serves field requests over websocket connections.
// It implements http.Handler.
type Handler struct {
	engine    *mandelfield.Engine
	timeout   time.Duration
	maxPixels int
	origins   []string
}

// NewHandler creates a handler computing fields on e.
// The handler does not own e; the caller closes it.
func NewHandler(e *mandelfield.Engine, opts ...Option) *Handler {
	h := &Handler{
		engine:    e,
		timeout:   DefaultTimeout,
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the connection and answers requests until the client
// closes it.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		mandelfield.Logger().Warn("server: accept", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer func() { _ = c.CloseNow() }()
	c.SetReadLimit(requestReadLimit)

	log := mandelfield.Logger().With("remote", r.RemoteAddr)
	log.Debug("server: connected")

	ctx := r.Context()
	for {
		var req Request
		if err := wsjson.Read(ctx, c, &req); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Debug("server: disconnected")
			default:
				log.Warn("server: read request", "err", err)
			}
			return
		}

		if err := h.serve(ctx, c, log, req); err != nil {
			log.Warn("server: reply", "err", err)
			return
		}
	}
}

// serve answers one request. Request failures are reported to the client;
// only transport failures are returned.
func (h *Handler) serve(ctx context.Context, c *websocket.Conn, log *slog.Logger, req Request) error {
	start := time.Now()

	bm, err := h.compute(ctx, req)
	if err != nil {
		log.Info("server: request failed", "request", req, "err", err)
		return wsjson.Write(ctx, c, ErrorReply{Error: err.Error()})
	}

	w, err := c.Writer(ctx, websocket.MessageBinary)
	if err != nil {
		return fmt.Errorf("open message: %w", err)
	}
	if err := writeField(w, bm, req.Compress); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}

	log.Debug("server: field sent",
		"width", bm.Width(), "height", bm.Height(),
		"bounded", bm.Count(), "zstd", req.Compress,
		"elapsed", time.Since(start))
	return nil
}

// compute runs the engine with the request deadline. The engine is not
// interruptible, so a late result is discarded.
func (h *Handler) compute(ctx context.Context, req Request) (*mandelfield.Bitmap, error) {
	vp, res, budget, err := req.Field()
	if err != nil {
		return nil, err
	}
	// Per-axis bound; Field already rejected non-positive sizes.
	if res.Width > h.maxPixels/res.Height {
		return nil, fmt.Errorf("%w: %v exceeds %d pixels", ErrTooLarge, res, h.maxPixels)
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	type result struct {
		bm  *mandelfield.Bitmap
		err error
	}
	done := make(chan result, 1)
	go func() {
		bm, err := h.engine.Compute(vp, res, budget)
		done <- result{bm, err}
	}()

	select {
	case r := <-done:
		return r.bm, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v after %v", ErrDeadline, res, h.timeout)
		}
		return nil, ctx.Err()
	}
}

// writeField writes bm as P4, through zstd when compress is set.
func writeField(w io.Writer, bm *mandelfield.Bitmap, compress bool) error {
	if compress {
		return rasterio.EncodeCompressed(w, bm, rasterio.PBM)
	}
	return rasterio.EncodePBM(w, bm)
}
