// Package convert writes pixel sources to disk as BMP artifacts. Each
// artifact is streamed straight from the source pixels, optionally through a
// zstd encoder, and is fingerprinted with BLAKE2b-256 over the uncompressed
// BMP bytes.
package convert

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/wudi/pdfraster/bitmap"
	"github.com/wudi/pdfraster/bmp"
	"github.com/wudi/pdfraster/observability"
	"golang.org/x/crypto/blake2b"
)

// ErrInvalidName is returned for artifact names that are empty or would
// escape the output directory.
var ErrInvalidName = errors.New("convert: invalid artifact name")

// Artifact describes one written file.
type Artifact struct {
	Name   string
	Path   string
	Width  int
	Height int
	Format bitmap.Format
	// Size is the length of the BMP encoding.
	Size int64
	// Written is the number of bytes on disk; it differs from Size only for
	// compressed artifacts.
	Written int64
	// Digest is the hex BLAKE2b-256 of the BMP encoding.
	Digest     string
	Compressed bool
}

// Item is a named source queued for ConvertAll.
type Item struct {
	Name   string
	Source bitmap.Source
}

// Converter writes artifacts into a directory.
type Converter struct {
	dir string
	cfg config
}

// New returns a Converter writing into dir, which must exist.
func New(dir string, opts ...Option) *Converter {
	return &Converter{dir: dir, cfg: newConfig(opts)}
}

// Convert encodes src and writes it as dir/name.bmp (or name.bmp.zst).
// A partially written file is removed on failure.
func (c *Converter) Convert(ctx context.Context, name string, src bitmap.Source) (art Artifact, err error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	if err := checkName(name); err != nil {
		return Artifact{}, err
	}
	ctx, span := c.cfg.tracer.StartSpan(ctx, "convert.artifact")
	span.SetTag("name", name)
	defer func() {
		if err != nil {
			span.SetError(err)
			c.cfg.logger.Error("convert failed", observability.String("name", name), observability.Error("error", err))
		}
		span.Finish()
	}()

	start := time.Now()
	s, err := bmp.NewStream(src, bmp.WithDPI(c.cfg.dpiX, c.cfg.dpiY))
	if err != nil {
		return Artifact{}, fmt.Errorf("encode %s: %w", name, err)
	}
	defer s.Close()

	l := s.Layout()
	art = Artifact{
		Name:       name,
		Path:       filepath.Join(c.dir, name+".bmp"),
		Width:      l.Width,
		Height:     l.Height,
		Format:     l.Format,
		Size:       l.Size,
		Compressed: c.cfg.compress,
	}
	if art.Compressed {
		art.Path += ".zst"
	}

	digest, written, err := c.write(art.Path, ctxReader{ctx: ctx, r: s})
	if err != nil {
		return Artifact{}, fmt.Errorf("write %s: %w", art.Path, err)
	}
	art.Digest = digest
	art.Written = written

	elapsed := time.Since(start)
	span.SetTag(observability.MetricEncodeTime, elapsed)
	span.SetTag(observability.MetricEncodedBytes, art.Size)
	span.SetTag(observability.MetricWrittenBytes, art.Written)
	c.cfg.logger.Info("artifact written",
		observability.String("name", name),
		observability.String("path", art.Path),
		observability.Int64("bytes", art.Size),
		observability.Int64("written", art.Written),
		observability.String("digest", art.Digest),
		observability.Duration("elapsed", elapsed),
	)
	return art, nil
}

func (c *Converter) write(path string, r io.Reader) (digest string, written int64, err error) {
	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	counter := &countingWriter{w: f}
	digest, err = c.copy(counter, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, errors.Join(err, os.Remove(path))
	}
	return digest, counter.n, nil
}

// copy streams r into w, through zstd when compression is on, and returns
// the digest of what was read from r.
func (c *Converter) copy(w io.Writer, r io.Reader) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if !c.cfg.compress {
		if _, err := io.Copy(io.MultiWriter(w, h), r); err != nil {
			return "", err
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	}
	zw, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(c.cfg.level),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(io.MultiWriter(zw, h), r); err != nil {
		zw.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ConvertAll converts items in order and stops at the first failure or when
// ctx is cancelled. Artifacts written before the failure are returned.
func (c *Converter) ConvertAll(ctx context.Context, items []Item) ([]Artifact, error) {
	ctx, span := c.cfg.tracer.StartSpan(ctx, "convert.batch")
	defer span.Finish()
	span.SetTag(observability.MetricPageCount, len(items))

	out := make([]Artifact, 0, len(items))
	for _, it := range items {
		art, err := c.Convert(ctx, it.Name, it.Source)
		if err != nil {
			span.SetError(err)
			return out, err
		}
		out = append(out, art)
	}
	return out, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
