package bmp

// readPixels fills dst with encoded pixel bytes starting at offset off of the
// pixel array, reading from a source whose rows start every stride bytes in
// pix. off+len(dst) must not exceed RowStride*Height.
//
// Bytes inside the first RowBytes of an encoded row come from the source,
// the rest of the row is zero padding.
func (l *Layout) readPixels(dst, pix []byte, stride int, off int64) {
	rowBytes := int64(l.RowBytes())
	if int64(stride) == l.RowStride && rowBytes == l.RowStride {
		copy(dst, pix[off:])
		return
	}
	for len(dst) > 0 {
		row, col := off/l.RowStride, off%l.RowStride
		var n int
		if col < rowBytes {
			start := row*int64(stride) + col
			n = copy(dst, pix[start:start+rowBytes-col])
		} else {
			n = int(min(int64(len(dst)), l.RowStride-col))
			clear(dst[:n])
		}
		dst = dst[n:]
		off += int64(n)
	}
}

// copyRow writes row y of the source into dst, which is RowStride bytes
// long, and zeroes the padding.
func (l *Layout) copyRow(dst, pix []byte, stride, y int) {
	start := y * stride
	n := copy(dst, pix[start:start+l.RowBytes()])
	clear(dst[n:])
}
