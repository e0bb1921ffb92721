package ocr

import "strconv"

// Tesseract variables set by the options below.
const (
	tessPageSegMode     = "tessedit_pageseg_mode"
	tessCharWhitelist   = "tessedit_char_whitelist"
	tessPreserveSpacing = "preserve_interword_spaces"
)

func withVariable(key, value string) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata[key] = value
	}
}

// WithTesseractPSM sets the page segmentation mode (PSM) variable for Tesseract.
// See https://tesseract-ocr.github.io/tessdoc/ImproveQuality.html#page-segmentation-method for values.
// Single rendered text lines usually want 7.
func WithTesseractPSM(mode int) InputOption {
	return withVariable(tessPageSegMode, strconv.Itoa(mode))
}

// WithTesseractWhitelist restricts recognition to the provided characters.
func WithTesseractWhitelist(chars string) InputOption {
	return withVariable(tessCharWhitelist, chars)
}

// WithTesseractPreserveSpaces keeps runs of spaces between words, which
// helps with tabular page content.
func WithTesseractPreserveSpaces() InputOption {
	return withVariable(tessPreserveSpacing, "1")
}
