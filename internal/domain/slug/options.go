package slug

const defaultMaxSize = 10_000

// Option applies a configuration option to the registry.
type Option func(*memoryRegistry)

// WithMaxSize bounds the number of registered ids.
// If maxSize > 0: bounded mode, oldest registration evicted first.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) Option {
	return func(r *memoryRegistry) {
		r.maxSize = maxSize
	}
}
