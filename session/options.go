package session

import (
	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/measure"
	"github.com/gogpu/framedbg/replay"
)

// Option configures a Controller.
type Option func(*options)

type options struct {
	cfg      framedbg.Config
	engine   replay.Engine
	measurer measure.Measurer
	queue    []replay.Option
}

// WithConfig sets the preferences. The default is framedbg.DefaultConfig.
func WithConfig(cfg framedbg.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithEngine sets the replay engine. It is required.
func WithEngine(e replay.Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

// WithMeasurer sets the timeline's label measurer.
func WithMeasurer(m measure.Measurer) Option {
	return func(o *options) {
		o.measurer = m
	}
}

// WithQueueOptions passes options to the request queue.
func WithQueueOptions(opts ...replay.Option) Option {
	return func(o *options) {
		o.queue = append(o.queue, opts...)
	}
}
