package stagewatch

import (
	"github.com/AnatoleLucet/stagewatch/internal/logging"
	"github.com/rs/zerolog"
)

type options struct {
	policy Policy
	logger zerolog.Logger
}

type Option func(*options)

// WithPolicy sets how a batch of notifications is judged.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithConfig applies a loaded Config. Options given after it win.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.policy = cfg.Policy
		o.logger = logging.NewStderr(cfg.Log)
	}
}

func buildOptions(opts []Option) options {
	o := options{
		policy: PolicyAtLeastOne,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
