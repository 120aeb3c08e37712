package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Writes both the uninhabited planets and the enriched Echo Base document, using the files of the config.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := env.config
		err := env.recordRun(cmd.Context(), "uninhabited", config.Planets.Out, func(ctx context.Context) (int, error) {
			planets, err := writeUninhabited(ctx, config.Planets.In, config.Planets.Out)
			return len(planets), err
		})
		if err != nil {
			return err
		}
		return env.recordRun(cmd.Context(), "enrich", config.EchoBase.Out, func(ctx context.Context) (int, error) {
			err := writeEchoBase(ctx, config.EchoBase.In, config.EchoBase.Out)
			if err != nil {
				return 0, err
			}
			return 1, nil
		})
	},
}
