package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manages the catalog response cache.",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Deletes cached responses older than the configured ttl.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pruned, err := env.cache.Prune(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pruned %d cached responses\n", pruned)
		return nil
	},
}
