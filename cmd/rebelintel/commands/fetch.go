package commands

import (
	"fmt"
	"rebelintel/internal/clean"
	"rebelintel/internal/record"
	"rebelintel/internal/swapi"

	"github.com/spf13/cobra"
)

var fetchRaw bool

func init() {
	fetchCmd.Flags().BoolVar(&fetchRaw, "raw", false, "Print the record exactly as the catalog returns it.")
	rootCmd.AddCommand(fetchCmd)
}

// nil means the record is cleaned without filtering
var categoryKeys = map[swapi.Category][]string{
	swapi.People:    clean.PersonKeys,
	swapi.Planets:   clean.PlanetKeys,
	swapi.Starships: clean.StarshipKeys,
	swapi.Vehicles:  clean.VehicleKeys,
	swapi.Species:   clean.SpeciesKeys,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <category> <term>",
	Short: "Searches the catalog and prints the best matching record, cleaned unless --raw is given.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := swapi.ParseCategory(args[0])
		if err != nil {
			return err
		}

		entity, err := env.client.SearchOne(cmd.Context(), category, args[1])
		if err != nil {
			return err
		}
		if !fetchRaw {
			keys, ok := categoryKeys[category]
			if ok {
				entity, err = env.cleaner.Prepare(cmd.Context(), entity, keys)
			} else {
				entity, err = env.cleaner.Clean(cmd.Context(), entity)
			}
			if err != nil {
				return err
			}
		}

		out, err := record.EncodeIndent(entity)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
