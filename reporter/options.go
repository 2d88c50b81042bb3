package reporter

import "github.com/jonboulle/clockwork"

// Option configures a reporter.
type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock sets the clock used to measure task durations.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

func newOptions(opts []Option) options {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
