package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/wudi/pdfraster/bitmap"
	"github.com/wudi/pdfraster/bmp"
	"github.com/wudi/pdfraster/convert"
	"github.com/wudi/pdfraster/observability"
	"github.com/wudi/pdfraster/pdfium"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/term"
)

type rawSpec struct {
	width, height, stride int
	format                bitmap.Format
}

type options struct {
	inputs      []string
	outDir      string
	dpiX, dpiY  float64
	format      bitmap.Format
	rotate      pdfium.Orientation
	annotations bool
	password    string
	compress    bool
	index       bool
	raw         *rawSpec
	stdout      bool
	verbose     bool
}

type env struct {
	stdout     io.Writer
	stderr     io.Writer
	isTerminal bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "pdfraster: %v\n", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	e := env{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		isTerminal: term.IsTerminal(int(os.Stdout.Fd())),
	}
	if err := run(ctx, opts, e); err != nil {
		fmt.Fprintf(os.Stderr, "pdfraster: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("pdfraster", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: pdfraster [flags] <input>...\n\n")
		fmt.Fprintf(fs.Output(), "Inputs are PDF files, PNG/JPEG/GIF/TIFF/WebP/BMP images or, with -raw, raw pixel dumps.\n\n")
		fs.PrintDefaults()
	}
	outDir := fs.String("out", "raster_output", "Directory for BMP artifacts")
	dpi := fs.Float64("dpi", bmp.DefaultDPI, "Resolution for rendering and the BMP header")
	ydpi := fs.Float64("ydpi", 0, "Vertical resolution if it differs from -dpi")
	format := fs.String("format", "bgra", "Pixel format for rendered pages and decoded images (bgr, bgrx, bgra)")
	rotate := fs.Int("rotate", 0, "Clockwise page rotation in degrees (0, 90, 180, 270)")
	annots := fs.Bool("annotations", true, "Render PDF annotations")
	password := fs.String("password", "", "Password to open encrypted PDFs")
	compress := fs.Bool("zstd", false, "Compress artifacts with zstd (.bmp.zst)")
	index := fs.Bool("index", false, "Write index.html next to the artifacts")
	raw := fs.String("raw", "", "Treat inputs as raw pixel dumps: WxH[:stride]:format")
	stdout := fs.Bool("stdout", false, "Write the single resulting BMP to standard output")
	verbose := fs.Bool("v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return options{}, fmt.Errorf("missing input")
	}
	opts.inputs = fs.Args()
	opts.outDir = *outDir
	opts.dpiX, opts.dpiY = *dpi, *dpi
	if *ydpi != 0 {
		opts.dpiY = *ydpi
	}
	if !(opts.dpiX > 0) || !(opts.dpiY > 0) {
		return options{}, fmt.Errorf("resolution must be positive")
	}
	f, err := bitmap.ParseFormat(*format)
	if err != nil {
		return options{}, err
	}
	if f == bitmap.Gray {
		return options{}, fmt.Errorf("format %v cannot be written as BMP", f)
	}
	opts.format = f
	switch *rotate {
	case 0:
		opts.rotate = pdfium.Normal
	case 90:
		opts.rotate = pdfium.Rotate90
	case 180:
		opts.rotate = pdfium.Rotate180
	case 270:
		opts.rotate = pdfium.Rotate270
	default:
		return options{}, fmt.Errorf("rotation must be 0, 90, 180 or 270, got %d", *rotate)
	}
	opts.annotations = *annots
	opts.password = *password
	opts.compress = *compress
	opts.index = *index
	if *raw != "" {
		spec, err := parseRawSpec(*raw)
		if err != nil {
			return options{}, err
		}
		opts.raw = &spec
	}
	opts.stdout = *stdout
	opts.verbose = *verbose
	if opts.stdout && opts.index {
		return options{}, fmt.Errorf("-stdout and -index are mutually exclusive")
	}
	return opts, nil
}

// parseRawSpec parses WxH[:stride]:format, for example 640x480:bgrx or
// 100x20:304:bgr.
func parseRawSpec(s string) (rawSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return rawSpec{}, fmt.Errorf("raw spec %q: want WxH[:stride]:format", s)
	}
	dims := strings.Split(parts[0], "x")
	if len(dims) != 2 {
		return rawSpec{}, fmt.Errorf("raw spec %q: bad dimensions %q", s, parts[0])
	}
	var spec rawSpec
	var err error
	if spec.width, err = strconv.Atoi(dims[0]); err != nil {
		return rawSpec{}, fmt.Errorf("raw spec %q: width: %w", s, err)
	}
	if spec.height, err = strconv.Atoi(dims[1]); err != nil {
		return rawSpec{}, fmt.Errorf("raw spec %q: height: %w", s, err)
	}
	if spec.width <= 0 || spec.height <= 0 {
		return rawSpec{}, fmt.Errorf("raw spec %q: %w", s, bitmap.ErrInvalidBounds)
	}
	if len(parts) == 3 {
		if spec.stride, err = strconv.Atoi(parts[1]); err != nil || spec.stride <= 0 {
			return rawSpec{}, fmt.Errorf("raw spec %q: bad stride %q", s, parts[1])
		}
	}
	if spec.format, err = bitmap.ParseFormat(parts[len(parts)-1]); err != nil {
		return rawSpec{}, fmt.Errorf("raw spec %q: %w", s, err)
	}
	return spec, nil
}

func newLogger(w io.Writer, verbose bool) observability.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return observability.NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func run(ctx context.Context, opts options, e env) error {
	logger := newLogger(e.stderr, opts.verbose)
	if opts.stdout {
		return runStdout(ctx, opts, e, logger)
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	convOpts := []convert.Option{
		convert.WithDPI(opts.dpiX, opts.dpiY),
		convert.WithLogger(logger),
	}
	if opts.compress {
		convOpts = append(convOpts, convert.WithCompression(zstd.SpeedDefault))
	}
	conv := convert.New(opts.outDir, convOpts...)

	var artifacts []convert.Artifact
	for _, in := range opts.inputs {
		err := forEachSource(ctx, in, opts, logger, func(name string, src bitmap.Source) error {
			art, err := conv.Convert(ctx, name, src)
			if err != nil {
				return err
			}
			artifacts = append(artifacts, art)
			return nil
		})
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
	}
	logger.Info("done", observability.Int("artifacts", len(artifacts)), observability.String("dir", opts.outDir))

	if opts.index {
		return writeIndex(filepath.Join(opts.outDir, "index.html"), artifacts)
	}
	return nil
}

func writeIndex(path string, artifacts []convert.Artifact) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	w := bufio.NewWriter(f)
	err = convert.WriteIndex(w, "pdfraster", artifacts)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func runStdout(ctx context.Context, opts options, e env, logger observability.Logger) error {
	if e.isTerminal {
		return fmt.Errorf("refusing to write binary image data to a terminal")
	}
	if len(opts.inputs) != 1 {
		return fmt.Errorf("-stdout takes exactly one input, got %d", len(opts.inputs))
	}
	written := false
	return forEachSource(ctx, opts.inputs[0], opts, logger, func(name string, src bitmap.Source) error {
		if written {
			return fmt.Errorf("-stdout needs a single image, %s has more", opts.inputs[0])
		}
		written = true
		return encodeTo(e.stdout, src, opts)
	})
}

func encodeTo(w io.Writer, src bitmap.Source, opts options) error {
	bw := bufio.NewWriter(w)
	dst := io.Writer(bw)
	var zw *zstd.Encoder
	if opts.compress {
		var err error
		if zw, err = zstd.NewWriter(bw); err != nil {
			return err
		}
		dst = zw
	}
	if err := bmp.Encode(dst, src, bmp.WithDPI(opts.dpiX, opts.dpiY)); err != nil {
		if zw != nil {
			zw.Close()
		}
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// forEachSource decodes input into pixel sources and hands them to fn one
// at a time. Sources are released after fn returns.
func forEachSource(ctx context.Context, input string, opts options, logger observability.Logger, fn func(name string, src bitmap.Source) error) error {
	base := sourceName(input)
	if opts.raw != nil {
		r := opts.raw
		m, err := bitmap.Map(input, r.width, r.height, r.stride, r.format)
		if err != nil {
			return err
		}
		defer m.Close()
		return fn(base, m)
	}
	if strings.EqualFold(filepath.Ext(input), ".pdf") {
		return forEachPage(ctx, input, base, opts, logger, fn)
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	img, kind, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	logger.Debug("decoded image", observability.String("input", input), observability.String("kind", kind))
	b, err := bitmap.FromImage(img, opts.format)
	if err != nil {
		return err
	}
	return fn(base, b)
}

func forEachPage(ctx context.Context, input, base string, opts options, logger observability.Logger, fn func(string, bitmap.Source) error) error {
	doc, err := pdfium.Open(input, opts.password)
	if err != nil {
		return err
	}
	defer doc.Close()
	n, err := doc.PageCount()
	if err != nil {
		return err
	}
	if title, err := doc.Metadata(pdfium.MetaTitle); err == nil && title != "" {
		logger.Info("opened document", observability.String("input", input), observability.String("title", title), observability.Int("pages", n))
	}
	ropts := renderOptions(opts)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := renderPage(doc, i, ropts, logger, func(b *pdfium.Bitmap) error {
			return fn(fmt.Sprintf("%s-p%03d", base, i+1), b)
		}); err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	return nil
}

// renderOptions renders at both requested resolutions so the pixels match
// the densities recorded in the BMP header.
func renderOptions(opts options) pdfium.RenderOptions {
	ropts := pdfium.RenderOptions{
		DPI:         opts.dpiX,
		VerticalDPI: opts.dpiY,
		Format:      opts.format,
		Orientation: opts.rotate,
	}
	if opts.annotations {
		ropts.Flags |= pdfium.Annotations
	}
	return ropts
}

func renderPage(doc *pdfium.Document, index int, ropts pdfium.RenderOptions, logger observability.Logger, fn func(*pdfium.Bitmap) error) error {
	page, err := doc.Page(index)
	if err != nil {
		return err
	}
	defer page.Close()
	start := time.Now()
	b, err := page.Render(ropts)
	if err != nil {
		return err
	}
	defer b.Close()
	logger.Debug("rendered page",
		observability.Int("page", index+1),
		observability.Int("width", b.Width),
		observability.Int("height", b.Height),
		observability.Float64("dpi", ropts.DPI),
		observability.Float64("ydpi", ropts.VerticalDPI),
		observability.Duration(observability.MetricRenderTime, time.Since(start)),
	)
	return fn(b)
}

// sourceName derives an artifact name from an input path.
func sourceName(input string) string {
	name := filepath.Base(input)
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
