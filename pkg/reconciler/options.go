package reconciler

import (
	"time"

	"github.com/agentstation/geomap/pkg/constants"
	"github.com/agentstation/geomap/pkg/errors"
)

// options configures a reconciler.
type options struct {
	delay time.Duration
	pacer Pacer
}

func defaultOptions() *options {
	return &options{
		delay: constants.DefaultDelay,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithDelay sets the minimum spacing between consecutive lookups.
// Zero disables pacing.
func WithDelay(delay time.Duration) Option {
	return func(o *options) error {
		if delay < 0 {
			return &errors.ValidationError{
				Field:   "delay",
				Value:   delay,
				Message: "cannot be negative",
			}
		}
		o.delay = delay
		return nil
	}
}

// WithPacer replaces the delay based pacer.
func WithPacer(p Pacer) Option {
	return func(o *options) error {
		if p == nil {
			return &errors.ValidationError{
				Field:   "pacer",
				Message: "cannot be nil",
			}
		}
		o.pacer = p
		return nil
	}
}
