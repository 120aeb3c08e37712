package commands

import (
	"context"
	"fmt"
	"log/slog"
	"rebelintel/internal/echobase"
	"rebelintel/internal/record"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	uninhabitedIn    string
	uninhabitedOut   string
	uninhabitedTable bool
)

func init() {
	flags := uninhabitedCmd.Flags()
	flags.StringVar(&uninhabitedIn, "in", "", "The planets file to read (defaults to planets.in of the config).")
	flags.StringVar(&uninhabitedOut, "out", "", "The file to write uninhabited planets to (defaults to planets.out of the config).")
	flags.BoolVar(&uninhabitedTable, "table", false, "Also print the planets as a table.")
	rootCmd.AddCommand(uninhabitedCmd)
}

func writeUninhabited(ctx context.Context, in, out string) ([]*record.Record, error) {
	planets, err := record.ReadRecords(in)
	if err != nil {
		return nil, fmt.Errorf("read planets: %w", err)
	}
	uninhabited, err := echobase.Uninhabited(ctx, env.cleaner, planets)
	if err != nil {
		return nil, err
	}

	err = record.WriteJSON(out, uninhabited)
	if err != nil {
		return nil, fmt.Errorf("write uninhabited planets: %w", err)
	}
	slog.Info("wrote uninhabited planets", "path", out, "count", len(uninhabited))
	return uninhabited, nil
}

var uninhabitedCmd = &cobra.Command{
	Use:   "uninhabited [--in <planets.json>] [--out <uninhabited.json>] [--table]",
	Short: "Writes the planets of unknown population, candidates for a new rebel base.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := orDefault(uninhabitedIn, env.config.Planets.In)
		out := orDefault(uninhabitedOut, env.config.Planets.Out)

		var planets []*record.Record
		err := env.recordRun(cmd.Context(), "uninhabited", out, func(ctx context.Context) (int, error) {
			var err error
			planets, err = writeUninhabited(ctx, in, out)
			return len(planets), err
		})
		if err != nil {
			return err
		}

		if uninhabitedTable {
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Name", "Climate", "Terrain", "Gravity", "Diameter", "Surface water"})
			for _, p := range planets {
				t.AppendRow(table.Row{
					cell(field(p, "name")),
					cell(field(p, "climate")),
					cell(field(p, "terrain")),
					cell(field(p, "gravity")),
					cell(field(p, "diameter")),
					cell(field(p, "surface_water")),
				})
			}
			t.Render()
		}
		return nil
	},
}

func field(r *record.Record, key string) any {
	value, _ := r.Get(key)
	return value
}

func orDefault(flag, config string) string {
	if flag != "" {
		return flag
	}
	return config
}
