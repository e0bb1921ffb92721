// Package bmp encodes rendered pixel buffers as uncompressed BMP images.
//
// Two modes are offered. Encode (and EncodeFile) writes the header followed by
// every row to a sink in one pass. NewStream returns a read-only, seekable
// Stream that computes the bytes of any requested range on demand, so a page
// bitmap can be handed to a decoder or copied out without ever holding the
// whole encoded file in memory.
//
// Both modes produce identical bytes: a 14 byte file header, a 40 byte
// BITMAPINFOHEADER (BGR, BGRx) or a 108 byte BITMAPV4HEADER with channel bit
// masks (BGRA), and top-down rows padded to four bytes. Gray bitmaps are
// rejected with ErrUnsupportedFormat.
//
// The encoder borrows the pixel memory of its source. The caller keeps it
// alive and unchanged until the stream is closed or Encode returns.
package bmp
