package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lintang-b-s/hipr-maxflow/pkg"
	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"github.com/lintang-b-s/hipr-maxflow/pkg/dimacs"
	"github.com/lintang-b-s/hipr-maxflow/pkg/maxflow"
	"github.com/lintang-b-s/hipr-maxflow/pkg/metrics"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type solveResult struct {
	flow    int64
	elapsed time.Duration
	stats   *maxflow.Stats // push-relabel only
	cut     *maxflow.MinCut
}

// solve runs algorithm on g and records the run in the solver metrics.
func (c *CLI) solve(ctx context.Context, g *datastructure.ResidualGraph, source, sink datastructure.Index,
	algorithm string) (*solveResult, error) {
	solver, err := maxflow.NewSolver(algorithm, g,
		maxflow.WithLogger(c.logger),
		maxflow.WithGlobalRelabelFrequency(c.v.GetFloat64("global-relabel-freq")),
	)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	flow, err := solver.ComputeMaxFlowContext(ctx, source, sink)
	elapsed := time.Since(start)

	var stats *maxflow.Stats
	if engine, ok := solver.(*maxflow.Engine); ok {
		s := engine.Stats()
		stats = &s
	}
	metrics.ObserveSolve(algorithm, err, elapsed, stats)
	if err != nil {
		return nil, err
	}

	cut, err := solver.MinCut()
	if err != nil {
		return nil, err
	}
	return &solveResult{flow: flow, elapsed: elapsed, stats: stats, cut: cut}, nil
}

// withTimeout bounds ctx by the --timeout flag when it is set.
func (c *CLI) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := c.v.GetDuration("timeout"); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func (c *CLI) solveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Compute the maximum flow of a DIMACS instance",
		Long: `Compute the maximum flow of a DIMACS max-flow instance (plain or .bz2).

The source and sink come from the "n <id> s|t" lines of the file, or nodes 1 and 2
when the file has none. --source and --sink override them with 1-indexed ids.`,
		Example: `  hipr solve network.max
  hipr solve --algorithm dinic --cut network.max.bz2
  HIPR_GLOBAL_RELABEL_FREQ=0.5 hipr solve --validate network.max`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := dimacs.Open(args[0])
			if err != nil {
				return err
			}
			if source := c.v.GetInt("source"); source > 0 {
				p.Source = datastructure.Index(source - 1)
			}
			if sink := c.v.GetInt("sink"); sink > 0 {
				p.Sink = datastructure.Index(sink - 1)
			}

			g, err := p.Graph()
			if err != nil {
				return err
			}
			algorithm := c.v.GetString("algorithm")
			c.logger.Sugar().Infof("solving %s with %s: %d nodes, %d arcs", args[0], algorithm, p.Nodes, len(p.Arcs))

			ctx, cancel := c.withTimeout(cmd.Context())
			defer cancel()
			res, err := c.solve(ctx, g, p.Source, p.Sink, algorithm)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "max flow: %d\n", res.flow)
			fmt.Fprintf(out, "elapsed: %s\n", res.elapsed)
			if res.stats != nil {
				printStats(out, res.stats)
			}
			if p.HasExpectedFlow && p.ExpectedFlow != res.flow {
				return fmt.Errorf("max flow %d differs from the expected %d", res.flow, p.ExpectedFlow)
			}
			if c.v.GetBool("cut") {
				printCut(out, g, res.cut)
			}
			if c.v.GetBool("validate") {
				if err := maxflow.Validate(g, p.Source, p.Sink, res.flow, res.cut); err != nil {
					return fmt.Errorf("validation failed: %w", err)
				}
				fmt.Fprintln(out, "validation: ok")
			}
			return nil
		},
	}

	cmd.Flags().String("algorithm", pkg.ALGORITHM_PUSH_RELABEL, fmt.Sprintf("one of %v", maxflow.Algorithms))
	cmd.Flags().Int("source", 0, "1-indexed source node, overrides the file")
	cmd.Flags().Int("sink", 0, "1-indexed sink node, overrides the file")
	cmd.Flags().Bool("cut", false, "print the minimum cut")
	cmd.Flags().Bool("validate", false, "check the flow and the cut before exiting")
	cmd.Flags().Float64("global-relabel-freq", pkg.DEFAULT_GLOBAL_RELABEL_FREQUENCY,
		"global relabel after freq*n relabels, <= 0 disables")
	cmd.Flags().Duration("timeout", 0, "abort the computation after this long")
	return cmd
}

func printStats(out io.Writer, stats *maxflow.Stats) {
	fmt.Fprintf(out, "discharges: %s, pushes: %s, relabels: %s\n",
		humanize.Comma(int64(stats.Discharges)), humanize.Comma(int64(stats.Pushes)), humanize.Comma(int64(stats.Relabels)))
	fmt.Fprintf(out, "global relabels: %s, gaps: %s (%s nodes lifted)\n",
		humanize.Comma(int64(stats.GlobalRelabels)), humanize.Comma(int64(stats.Gaps)), humanize.Comma(int64(stats.GapNodes)))
}

// printCut lists the cut arcs with 1-indexed endpoints.
func printCut(out io.Writer, g *datastructure.ResidualGraph, cut *maxflow.MinCut) {
	fmt.Fprintf(out, "min cut: capacity %d, %d source side nodes, %d sink side nodes\n",
		cut.GetCapacity(), cut.GetNumNodesInSourceSide(), cut.GetNumNodesInSinkSide())

	var table = tablewriter.NewWriter(out)
	table.SetHeader([]string{"From", "To", "Capacity"})
	for _, id := range cut.GetCutArcs() {
		a := g.GetArc(id)
		table.Append([]string{
			strconv.Itoa(int(a.GetFrom()) + 1),
			strconv.Itoa(int(a.GetTo()) + 1),
			strconv.FormatInt(a.GetCapacity(), 10),
		})
	}
	table.Render()
}
