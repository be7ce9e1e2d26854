// Command fieldserver serves Mandelbrot fields over a websocket.
//
// Clients connect to /field and send JSON requests such as
//
//	{"name": "seahorse-valley", "dimension": 512, "iterations": 200}
//
// and receive each field as one binary P4 message.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mrange/mandelfield"
	"github.com/mrange/mandelfield/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fieldserver", "err", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr      = flag.String("addr", ":8080", "listen address")
		workers   = flag.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
		lanes     = flag.Int("lanes", 0, "lane width (0 = detect from CPU)")
		group     = flag.Int("group", 1, "rows per lane batch")
		precision = flag.String("precision", "float64", "float64 or float32")
		timeout   = flag.Duration("timeout", server.DefaultTimeout, "per-request compute deadline")
		maxPixels = flag.Int("maxpixels", server.DefaultMaxPixels, "largest accepted width*height")
		origins   = flag.String("origins", "", "comma-separated origin patterns for cross-origin clients")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	mandelfield.SetLogger(logger)

	prec, err := mandelfield.ParsePrecision(*precision)
	if err != nil {
		return err
	}

	e, err := mandelfield.NewEngine(
		mandelfield.WithWorkers(*workers),
		mandelfield.WithLaneWidth(*lanes),
		mandelfield.WithRowGroup(*group),
		mandelfield.WithPrecision(prec),
		mandelfield.WithPaddedRows(true),
	)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := []server.Option{
		server.WithTimeout(*timeout),
		server.WithMaxPixels(*maxPixels),
	}
	if *origins != "" {
		opts = append(opts, server.WithOriginPatterns(strings.Split(*origins, ",")...))
	}

	mux := http.NewServeMux()
	mux.Handle("/field", server.NewHandler(e, opts...))

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("fieldserver: listening", "addr", *addr, "workers", e.Workers(), "lanes", e.LaneWidth())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("fieldserver: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
