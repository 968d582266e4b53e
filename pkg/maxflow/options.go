package maxflow

import (
	"github.com/lintang-b-s/hipr-maxflow/pkg"
	"go.uber.org/zap"
)

type options struct {
	globalRelabelFrequency float64
	initialGlobalRelabel   bool
	maxDischarges          int
	logger                 *zap.Logger
}

func defaultOptions() options {
	return options{
		globalRelabelFrequency: pkg.DEFAULT_GLOBAL_RELABEL_FREQUENCY,
		initialGlobalRelabel:   true,
		logger:                 zap.NewNop(),
	}
}

type Option func(*options)

// WithGlobalRelabelFrequency runs a global relabel after freq*n relabels. A value <= 0
// turns periodic global relabeling off; the final one that fixes the cut still runs.
func WithGlobalRelabelFrequency(freq float64) Option {
	return func(o *options) { o.globalRelabelFrequency = freq }
}

// WithInitialGlobalRelabel replaces the heights set by initialization with exact
// distances before the first discharge.
func WithInitialGlobalRelabel(enabled bool) Option {
	return func(o *options) { o.initialGlobalRelabel = enabled }
}

// WithMaxDischarges aborts a run with ErrStepBudgetExceeded after n discharges.
// Zero means unlimited.
func WithMaxDischarges(n int) Option {
	return func(o *options) { o.maxDischarges = n }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
