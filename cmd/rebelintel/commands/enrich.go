package commands

import (
	"context"
	"fmt"
	"log/slog"
	"rebelintel/internal/record"

	"github.com/spf13/cobra"
)

var (
	enrichIn  string
	enrichOut string
)

func init() {
	flags := enrichCmd.Flags()
	flags.StringVar(&enrichIn, "in", "", "The Echo Base seed file (defaults to echo_base.in of the config).")
	flags.StringVar(&enrichOut, "out", "", "The file to write the enriched document to (defaults to echo_base.out of the config).")
	rootCmd.AddCommand(enrichCmd)
}

func writeEchoBase(ctx context.Context, in, out string) error {
	seed, err := record.ReadRecord(in)
	if err != nil {
		return fmt.Errorf("read echo base: %w", err)
	}
	enriched, err := env.enricher().Enrich(ctx, seed)
	if err != nil {
		return fmt.Errorf("enrich echo base: %w", err)
	}
	err = record.WriteJSON(out, enriched)
	if err != nil {
		return fmt.Errorf("write echo base: %w", err)
	}
	slog.Info("wrote echo base", "path", out)
	return nil
}

var enrichCmd = &cobra.Command{
	Use:   "enrich [--in <echo_base.json>] [--out <enriched.json>]",
	Short: "Enriches the Echo Base document with catalog data and computes the evacuation plan.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := orDefault(enrichIn, env.config.EchoBase.In)
		out := orDefault(enrichOut, env.config.EchoBase.Out)
		return env.recordRun(cmd.Context(), "enrich", out, func(ctx context.Context) (int, error) {
			err := writeEchoBase(ctx, in, out)
			if err != nil {
				return 0, err
			}
			return 1, nil
		})
	},
}
