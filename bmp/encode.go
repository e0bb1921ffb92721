package bmp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wudi/pdfraster/bitmap"
)

// Encode writes the complete BMP encoding of src to w. The sink does not
// need to be seekable. The bytes written are identical to those read from
// NewStream for the same source and options.
func Encode(w io.Writer, src bitmap.Source, opts ...Option) error {
	l, header, err := prepare(src, newConfig(opts))
	if err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	pix, stride := src.Buffer()
	row := make([]byte, l.RowStride)
	for y := 0; y < l.Height; y++ {
		l.copyRow(row, pix, stride, y)
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", y, err)
		}
	}
	return nil
}

// EncodeFile writes the BMP encoding of src to a new file at path. On
// failure the partially written file is removed.
func EncodeFile(path string, src bitmap.Source, opts ...Option) (err error) {
	// Validate before creating the file so bad input leaves nothing behind.
	if _, _, err := prepare(src, newConfig(opts)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			err = errors.Join(err, removeIfExists(path))
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, src, opts...); err != nil {
		return err
	}
	return bw.Flush()
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
