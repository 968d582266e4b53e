package cli

import (
	"context"
	"strings"

	"github.com/lintang-b-s/hipr-maxflow/pkg/logger"
	"github.com/lintang-b-s/hipr-maxflow/pkg/logger/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "HIPR"

// CLI holds the state shared by all commands of one invocation.
type CLI struct {
	v      *viper.Viper
	logger *zap.Logger
}

// New returns a CLI whose flags can be overridden by HIPR_* environment variables,
// e.g. HIPR_GLOBAL_RELABEL_FREQ for --global-relabel-freq.
func New() *CLI {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &CLI{v: v, logger: zap.NewNop()}
}

func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "hipr",
		Short:         "hipr computes maximum flows with highest-label push-relabel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			// logger.New reads LOG_LEVEL and LOG_TIME_FORMAT from the global viper, so the
			// log settings go there while command flags stay on c.v.
			viper.SetEnvPrefix(envPrefix)
			viper.AutomaticEnv()
			if verbose {
				viper.Set("LOG_LEVEL", config.DEBUG_LEVEL)
			}
			log, err := logger.New()
			if err != nil {
				return err
			}
			c.logger = log
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.osmCommand())
	return root
}

// Sync flushes the logger of the last command, whether it failed or not.
func (c *CLI) Sync() {
	_ = c.logger.Sync()
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	c := New()
	defer c.Sync()
	return c.RootCommand().ExecuteContext(ctx)
}
