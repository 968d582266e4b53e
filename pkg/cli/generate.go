package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lintang-b-s/hipr-maxflow/pkg/dimacs"
	"github.com/lintang-b-s/hipr-maxflow/pkg/generator"
	"github.com/spf13/cobra"
)

func (c *CLI) generateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write random DIMACS max-flow instances",
		Long: `Write random flow networks with source 1 and sink 2. The source feeds
--source-conn nodes, --sink-conn nodes feed the sink and the rest of the arcs join
random pairs of the other nodes. Each file records its maximum flow in a comment.`,
		Example: `  hipr generate --nodes 1000 --arcs 8000 --output random.max
  hipr generate --count 10 --seed 7 --output bench/random.max.bz2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			count := c.v.GetInt("count")
			if count < 1 {
				return fmt.Errorf("count must be positive, got %d", count)
			}
			output := c.v.GetString("output")
			if output == "" && count > 1 {
				return fmt.Errorf("--output is required when generating %d instances", count)
			}

			for i := 0; i < count; i++ {
				cfg := generator.Config{
					Nodes:             c.v.GetInt("nodes"),
					Arcs:              c.v.GetInt("arcs"),
					MaxCapacity:       c.v.GetInt64("max-capacity"),
					SourceConnections: c.v.GetInt("source-conn"),
					SinkConnections:   c.v.GetInt("sink-conn"),
					Seed:              c.v.GetUint64("seed") + uint64(i),
				}
				p, err := generator.Generate(cfg)
				if err != nil {
					return err
				}

				if output == "" {
					if err := dimacs.Write(cmd.OutOrStdout(), p); err != nil {
						return err
					}
					continue
				}
				name := instanceName(output, i, count)
				if err := dimacs.Create(name, p); err != nil {
					return err
				}
				c.logger.Sugar().Infof("wrote %s: %d nodes, %d arcs, max flow %d", name, p.Nodes, len(p.Arcs), p.ExpectedFlow)
			}
			return nil
		},
	}

	cmd.Flags().Int("count", 1, "number of instances")
	cmd.Flags().Int("nodes", 100, "nodes per instance, source and sink included")
	cmd.Flags().Int("arcs", 500, "arcs per instance")
	cmd.Flags().Int64("max-capacity", 100, "capacities are drawn from [1, max-capacity]")
	cmd.Flags().Int("source-conn", 5, "arcs leaving the source")
	cmd.Flags().Int("sink-conn", 5, "arcs entering the sink")
	cmd.Flags().Uint64("seed", 1, "seed of the first instance, later ones use seed+i")
	cmd.Flags().String("output", "", "output file, .bz2 compresses; stdout if empty")
	return cmd
}

// instanceName numbers output files when more than one instance is written:
// "dir/net.max.bz2" becomes "dir/net-003.max.bz2".
func instanceName(output string, i, count int) string {
	if count == 1 {
		return output
	}
	dir, base := filepath.Split(output)
	stem, ext := base, ""
	if dot := strings.Index(base, "."); dot > 0 {
		stem, ext = base[:dot], base[dot:]
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%03d%s", stem, i, ext))
}
