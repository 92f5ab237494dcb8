package timeline

import (
	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/measure"
)

// Option configures a Bar.
type Option func(*barOptions)

type barOptions struct {
	cfg      framedbg.TimelineConfig
	measurer measure.Measurer
	barriers bool
}

func defaultOptions() barOptions {
	return barOptions{
		cfg:      framedbg.DefaultConfig().Timeline,
		barriers: true,
	}
}

// WithConfig sets the timeline preferences.
func WithConfig(cfg framedbg.TimelineConfig) Option {
	return func(o *barOptions) {
		o.cfg = cfg
	}
}

// WithMeasurer sets how label widths are measured. By default labels are
// shaped in Go Mono at the configured font size.
func WithMeasurer(m measure.Measurer) Option {
	return func(o *barOptions) {
		o.measurer = m
	}
}

// WithBarriers controls whether the legend lists barrier usage. APIs
// without explicit barriers should pass false.
func WithBarriers(enabled bool) Option {
	return func(o *barOptions) {
		o.barriers = enabled
	}
}
