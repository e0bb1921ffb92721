package bmp

// DefaultDPI is the resolution recorded in the header when none is given.
const DefaultDPI = 72

type config struct {
	dpiX, dpiY float64
}

// Option configures Encode, EncodeFile and NewStream.
type Option func(*config)

// WithDPI records the horizontal and vertical resolution in the header.
func WithDPI(horizontal, vertical float64) Option {
	return func(c *config) {
		c.dpiX = horizontal
		c.dpiY = vertical
	}
}

func newConfig(opts []Option) config {
	c := config{dpiX: DefaultDPI, dpiY: DefaultDPI}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
