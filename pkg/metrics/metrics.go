package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/lintang-b-s/hipr-maxflow/pkg/maxflow"
	"github.com/prometheus/client_golang/prometheus"
)

// Keys for solver metrics.
const (
	SolveTotalKey           = "hipr_solve_total"
	SolveDurationSecondsKey = "hipr_solve_duration_seconds"
	PushesTotalKey          = "hipr_pushes_total"
	RelabelsTotalKey        = "hipr_relabels_total"
	GlobalRelabelsTotalKey  = "hipr_global_relabels_total"
	GapsTotalKey            = "hipr_gaps_total"
)

// Values of the status label.
const (
	StatusOK        = "ok"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// Collectors for solver metrics.
var (
	SolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: SolveTotalKey,
		Help: "Cumulative number of max flow computations.",
	}, []string{"algorithm", "status"})
	SolveDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    SolveDurationSecondsKey,
		Help:    "Wall time of max flow computations.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	}, []string{"algorithm"})
	PushesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: PushesTotalKey,
		Help: "Cumulative number of push-relabel pushes.",
	})
	RelabelsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: RelabelsTotalKey,
		Help: "Cumulative number of push-relabel relabels.",
	})
	GlobalRelabelsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: GlobalRelabelsTotalKey,
		Help: "Cumulative number of global relabels.",
	})
	GapsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: GapsTotalKey,
		Help: "Cumulative number of gap heuristic events.",
	})
)

func SolverCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		SolveTotal,
		SolveDurationSeconds,
		PushesTotal,
		RelabelsTotal,
		GlobalRelabelsTotal,
		GapsTotal,
	}
}

func Register(reg prometheus.Registerer) error {
	for _, c := range SolverCollectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	default:
		return StatusFailed
	}
}

// ObserveSolve records one computation. stats may be nil for solvers other than
// push-relabel.
func ObserveSolve(algorithm string, err error, elapsed time.Duration, stats *maxflow.Stats) {
	SolveTotal.WithLabelValues(algorithm, Status(err)).Inc()
	SolveDurationSeconds.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	if stats == nil {
		return
	}
	PushesTotal.Add(float64(stats.Pushes))
	RelabelsTotal.Add(float64(stats.Relabels))
	GlobalRelabelsTotal.Add(float64(stats.GlobalRelabels))
	GapsTotal.Add(float64(stats.Gaps))
}
