// Command mandelbrot computes a Mandelbrot membership bitmap and saves it.
//
// Usage:
//
//	mandelbrot [flags] [dimension]
//
// The dimension defaults to 200 and must be a multiple of 8. The field is
// written to mandelbrot.pbm unless -o names another file; the extension
// selects PBM, PNG, BMP or TIFF and a trailing .zst compresses the file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mrange/mandelfield"
	"github.com/mrange/mandelfield/internal/server"
	"github.com/mrange/mandelfield/rasterio"
)

const defaultDim = 200

var errDimension = errors.New("dimension must be modulo 8")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errDimension) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		iter      = flag.Int("iter", int(mandelfield.DefaultIterations), "iteration budget")
		workers   = flag.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
		lanes     = flag.Int("lanes", 0, "lane width (0 = detect from CPU)")
		group     = flag.Int("group", 1, "rows per lane batch")
		unroll    = flag.Int("unroll", 8, "iterations between escape checks")
		precision = flag.String("precision", "float64", "float64 or float32")
		region    = flag.String("region", "classic", "region name or minX,minY,maxX,maxY")
		output    = flag.String("o", "mandelbrot.pbm", "output file (.pbm, .png, .bmp, .tiff, optionally .zst)")
		preview   = flag.Int("preview", 0, "scale image outputs to at most this many pixels per side")
		noEarly   = flag.Bool("noearly", false, "disable the early-exit test")
		noWarm    = flag.Bool("nowarm", false, "disable warm starts")
		stats     = flag.Bool("stats", false, "print work statistics")
		verbose   = flag.Bool("v", false, "debug logging to stderr")
		remote    = flag.String("remote", "", "fetch the field from a fieldserver websocket URL")
		regions   = flag.Bool("regions", false, "list region names and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [dimension]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	p := message.NewPrinter(userLanguage())

	if *regions {
		for _, name := range mandelfield.ViewportNames() {
			vp, _ := mandelfield.LookupViewport(name)
			p.Printf("%-24s %v\n", name, vp)
		}
		return nil
	}

	if *verbose {
		mandelfield.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	dim := parseDim(flag.Arg(0))
	if dim%8 != 0 {
		return errDimension
	}

	vp, err := mandelfield.ParseViewport(*region)
	if err != nil {
		return err
	}
	prec, err := mandelfield.ParsePrecision(*precision)
	if err != nil {
		return err
	}
	if err := checkOutput(*output, *preview); err != nil {
		return err
	}
	budget := mandelfield.IterationBudget(*iter)
	res := mandelfield.Square(dim)

	fmt.Printf("Generating mandelbrot set %dx%d(%d)\n", dim, dim, *iter)

	var (
		bm *mandelfield.Bitmap
		st mandelfield.Stats
	)
	start := time.Now()
	if *remote != "" {
		bm, err = fetchRemote(*remote, vp, dim, *iter)
	} else {
		bm, st, err = compute(vp, res, budget,
			mandelfield.WithWorkers(*workers),
			mandelfield.WithLaneWidth(*lanes),
			mandelfield.WithRowGroup(*group),
			mandelfield.WithUnroll(*unroll),
			mandelfield.WithPrecision(prec),
			mandelfield.WithEarlyExit(!*noEarly),
			mandelfield.WithWarmStart(!*noWarm),
		)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	p.Printf("  it took %d ms\n", elapsed.Milliseconds())
	if *stats {
		printStats(p, bm, st, *remote != "")
	}

	var img image.Image = bm
	if *preview > 0 {
		img = rasterio.Preview(bm, *preview)
	}
	return rasterio.WriteFile(*output, img)
}

// parseDim returns the positional dimension, or the default for a missing
// or non-positive value.
func parseDim(arg string) int {
	dim, err := strconv.Atoi(arg)
	if err != nil || dim <= 0 {
		return defaultDim
	}
	return dim
}

// checkOutput rejects an output path that cannot hold the requested image
// before any work is done. Previews are grayscale and have no P4 form.
func checkOutput(path string, preview int) error {
	f, _, err := rasterio.FormatFromPath(path)
	if err != nil {
		return err
	}
	if preview > 0 && f == rasterio.PBM {
		return fmt.Errorf("%w: -preview needs a .png, .bmp or .tiff output, not %s",
			rasterio.ErrUnsupportedFormat, path)
	}
	return nil
}

func compute(vp mandelfield.Viewport, res mandelfield.Resolution, budget mandelfield.IterationBudget, opts ...mandelfield.Option) (*mandelfield.Bitmap, mandelfield.Stats, error) {
	e, err := mandelfield.NewEngine(opts...)
	if err != nil {
		return nil, mandelfield.Stats{}, err
	}
	defer e.Close()
	return e.ComputeStats(vp, res, budget)
}

func fetchRemote(url string, vp mandelfield.Viewport, dim, iter int) (*mandelfield.Bitmap, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	return server.Fetch(ctx, url, server.Request{
		Region:     server.RegionOf(vp),
		Dimension:  dim,
		Iterations: iter,
		Compress:   true,
	})
}

func printStats(p *message.Printer, bm *mandelfield.Bitmap, st mandelfield.Stats, remote bool) {
	p.Printf("  %d pixels, %d bounded\n", bm.Width()*bm.Height(), bm.Count())
	if remote {
		return
	}
	p.Printf("  %d batches on %d workers, %d lanes\n", st.Batches, st.Workers, st.Lanes)
	p.Printf("  %d lane-iterations, %.2f per pixel\n", st.Iterations, st.MeanIterations())
	p.Printf("  %d early exits, %d warm starts, %d chunks\n", st.EarlyExits, st.WarmStarts, st.Chunks)
	p.Printf("  cpu: %s\n", mandelfield.CPUFeatures())
}

// userLanguage picks the message language from LC_ALL, LC_NUMERIC or LANG.
func userLanguage() language.Tag {
	for _, env := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		v := os.Getenv(env)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		v, _, _ = strings.Cut(v, ".")
		if tag, err := language.Parse(strings.ReplaceAll(v, "_", "-")); err == nil {
			return tag
		}
	}
	return language.English
}
