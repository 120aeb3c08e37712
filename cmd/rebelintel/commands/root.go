package commands

import (
	"context"
	"fmt"
	"log/slog"
	"rebelintel/internal/components/telemetry"
	"rebelintel/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	noCache    bool
	dumpHttp   string
)

// env is set up before any subcommand runs and torn down by ExecuteContext.
var env *environment

var rootCmd = &cobra.Command{
	Use:           "rebelintel",
	Short:         "rebelintel assembles Rebel Alliance intelligence reports from the Star Wars API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)
		var err error
		env, err = newEnvironment(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", configName, "The config file, searched for in parent directories when given without a directory.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
	flags.BoolVar(&noCache, "no-cache", false, "Always fetch from the catalog, ignoring cached responses.")
	flags.StringVar(&dumpHttp, "dump-http", "", "A directory to write every http exchange to.")
}

func execute(ctx context.Context, args ...string) error {
	if args != nil {
		rootCmd.SetArgs(args)
	}
	err := rootCmd.ExecuteContext(ctx)
	if env != nil {
		closeErr := env.Close(context.WithoutCancel(ctx))
		if closeErr != nil {
			slog.Warn("failed to shut down cleanly", "err", closeErr.Error())
		}
		env = nil
	}
	return err
}

func ExecuteContext(ctx context.Context) {
	if err := execute(ctx); err != nil {
		serviceutil.Fatal("rebelintel failed", err)
	}
}
