package replay

// DefaultQueueDepth is the default capacity of the request and result
// buffers.
const DefaultQueueDepth = 64

// Option configures a Queue.
type Option func(*queueOptions)

type queueOptions struct {
	depth int
}

// WithQueueDepth sets how many requests and results may be buffered
// before Submit or the worker blocks.
func WithQueueDepth(n int) Option {
	return func(o *queueOptions) {
		if n > 0 {
			o.depth = n
		}
	}
}
