package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lintang-b-s/hipr-maxflow/pkg"
	"github.com/lintang-b-s/hipr-maxflow/pkg/concurrent"
	"github.com/lintang-b-s/hipr-maxflow/pkg/dimacs"
	"github.com/lintang-b-s/hipr-maxflow/pkg/maxflow"
	"github.com/lintang-b-s/hipr-maxflow/pkg/metrics"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type benchJob struct {
	index     int
	file      string
	algorithm string
}

type benchResult struct {
	benchJob
	nodes    int
	arcs     int
	expected string
	res      *solveResult
	err      error
}

func (c *CLI) benchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench <file>...",
		Short: "Solve many DIMACS instances concurrently and report timings",
		Long: `Solve every file with every requested algorithm on a pool of workers. Runs are
checked against the "c Maximum flow:" comment when the file carries one.`,
		Example: `  hipr bench --workers 4 instances/*.max
  hipr bench --algorithms push-relabel,dinic --metrics-addr :9090 big.max.bz2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithms := c.v.GetStringSlice("algorithms")
			for _, algorithm := range algorithms {
				if !isAlgorithm(algorithm) {
					return fmt.Errorf("unknown algorithm %q, expected one of %v", algorithm, maxflow.Algorithms)
				}
			}

			if addr := c.v.GetString("metrics-addr"); addr != "" {
				shutdown, err := c.serveMetrics(addr)
				if err != nil {
					return err
				}
				defer shutdown()
			}

			jobs := make([]benchJob, 0, len(args)*len(algorithms))
			for _, file := range args {
				for _, algorithm := range algorithms {
					jobs = append(jobs, benchJob{index: len(jobs), file: file, algorithm: algorithm})
				}
			}

			results := concurrent.Run(cmd.Context(), c.v.GetInt("workers"), jobs, c.runBenchJob)
			sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

			printBench(cmd.OutOrStdout(), results)

			failed := 0
			for _, r := range results {
				if r.err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d runs failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("algorithms", []string{pkg.ALGORITHM_PUSH_RELABEL}, fmt.Sprintf("subset of %v", maxflow.Algorithms))
	cmd.Flags().Int("workers", 1, "number of instances solved at once")
	cmd.Flags().Float64("global-relabel-freq", pkg.DEFAULT_GLOBAL_RELABEL_FREQUENCY,
		"global relabel after freq*n relabels, <= 0 disables")
	cmd.Flags().Duration("timeout", 0, "abort each computation after this long")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address while running")
	return cmd
}

func (c *CLI) runBenchJob(ctx context.Context, job benchJob) benchResult {
	result := benchResult{benchJob: job}
	p, err := dimacs.Open(job.file)
	if err != nil {
		result.err = err
		return result
	}
	result.nodes, result.arcs = p.Nodes, len(p.Arcs)
	if p.HasExpectedFlow {
		result.expected = strconv.FormatInt(p.ExpectedFlow, 10)
	}

	g, err := p.Graph()
	if err != nil {
		result.err = err
		return result
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	result.res, result.err = c.solve(ctx, g, p.Source, p.Sink, job.algorithm)
	if result.err == nil && p.HasExpectedFlow && p.ExpectedFlow != result.res.flow {
		result.err = fmt.Errorf("max flow %d differs from the expected %d", result.res.flow, p.ExpectedFlow)
	}
	if result.err != nil {
		c.logger.Warn("bench run failed", zap.String("file", job.file),
			zap.String("algorithm", job.algorithm), zap.Error(result.err))
	}
	return result
}

// serveMetrics exposes the solver collectors on addr until the returned func is called.
func (c *CLI) serveMetrics(addr string) (func(), error) {
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("metrics server", zap.String("addr", addr), zap.Error(err))
		}
	}()
	c.logger.Sugar().Infof("serving metrics on %s/metrics", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func printBench(out io.Writer, results []benchResult) {
	var table = tablewriter.NewWriter(out)
	table.SetHeader([]string{"File", "Algorithm", "Nodes", "Arcs", "Flow", "Expected", "Time", "Pushes", "Relabels", "Status"})
	for _, r := range results {
		flow, elapsed, pushes, relabels := "", "", "", ""
		if r.res != nil {
			flow = strconv.FormatInt(r.res.flow, 10)
			elapsed = r.res.elapsed.Round(time.Microsecond).String()
			if r.res.stats != nil {
				pushes = humanize.Comma(int64(r.res.stats.Pushes))
				relabels = humanize.Comma(int64(r.res.stats.Relabels))
			}
		}
		status := metrics.StatusOK
		if r.err != nil {
			status = r.err.Error()
		}
		table.Append([]string{
			filepath.Base(r.file), r.algorithm,
			humanize.Comma(int64(r.nodes)), humanize.Comma(int64(r.arcs)),
			flow, r.expected, elapsed, pushes, relabels, status,
		})
	}
	table.Render()
}

func isAlgorithm(name string) bool {
	for _, a := range maxflow.Algorithms {
		if a == name {
			return true
		}
	}
	return false
}
