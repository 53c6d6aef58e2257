package recon

import "github.com/charmbracelet/log"

// RunOption configures Run and RefineStar.
type RunOption func(*runOptions)

type runOptions struct {
	logger  *log.Logger
	metrics *Metrics
}

// WithLogger routes progress logs to l (default log.Default()).
// A nil l keeps the default.
func WithLogger(l *log.Logger) RunOption {
	return func(o *runOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records per-patch outcomes into m.
func WithMetrics(m *Metrics) RunOption {
	return func(o *runOptions) { o.metrics = m }
}

func newRunOptions(opts ...RunOption) runOptions {
	o := runOptions{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
