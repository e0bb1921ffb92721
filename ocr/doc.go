// Package ocr recognizes text on rendered page bitmaps. Pages are handed to
// engines as BMP images produced by the bmp stream encoder; engines such as
// the Tesseract binding in the tesseract subpackage plug in through the
// Engine interface.
package ocr
