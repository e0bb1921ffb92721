package convert

import (
	"github.com/klauspost/compress/zstd"
	"github.com/wudi/pdfraster/bmp"
	"github.com/wudi/pdfraster/observability"
)

// Option configures a Converter.
type Option func(*config)

type config struct {
	dpiX, dpiY float64
	compress   bool
	level      zstd.EncoderLevel
	logger     observability.Logger
	tracer     observability.Tracer
}

func newConfig(opts []Option) config {
	cfg := config{
		dpiX:   bmp.DefaultDPI,
		dpiY:   bmp.DefaultDPI,
		level:  zstd.SpeedDefault,
		logger: observability.NopLogger{},
		tracer: observability.NopTracer(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithDPI sets the resolution recorded in every artifact header.
func WithDPI(horizontal, vertical float64) Option {
	return func(c *config) { c.dpiX, c.dpiY = horizontal, vertical }
}

// WithCompression writes artifacts as zstd frames (.bmp.zst) at the given
// level.
func WithCompression(level zstd.EncoderLevel) Option {
	return func(c *config) {
		c.compress = true
		c.level = level
	}
}

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(l observability.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracer sets the tracer. Nil keeps the no-op tracer.
func WithTracer(t observability.Tracer) Option {
	return func(c *config) {
		if t != nil {
			c.tracer = t
		}
	}
}
