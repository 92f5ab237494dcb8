package raster

// DefaultMaxPixels bounds the canvas area Begin will allocate.
const DefaultMaxPixels = 1 << 26

// DefaultFontSize is used for text commands that carry no size.
const DefaultFontSize = 10

// Option configures a Backend.
type Option func(*options)

type options struct {
	fontSize  float64
	maxPixels int
}

func defaultOptions() options {
	return options{
		fontSize:  DefaultFontSize,
		maxPixels: DefaultMaxPixels,
	}
}

// WithFontSize sets the fallback text size in pixels.
func WithFontSize(size float64) Option {
	return func(o *options) {
		if size > 0 {
			o.fontSize = size
		}
	}
}

// WithMaxPixels limits the canvas area. Begin fails with
// ErrCanvasTooLarge for larger canvases.
func WithMaxPixels(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPixels = n
		}
	}
}
