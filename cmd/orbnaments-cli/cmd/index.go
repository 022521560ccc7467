package cmd

import (
	"github.com/spf13/cobra"
)

var fullReindex bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Update the link index",
	Long: `Bring the link index up to date with the vault.

The index is stored under $XDG_DATA_HOME/orbnaments and is updated
automatically before every move; use this command after large edits or
with --full to rebuild it from scratch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := GetApp().Reindex(cmd.Context(), fullReindex)
		if err != nil {
			return err
		}
		printStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&fullReindex, "full", false, "rebuild the index from scratch")
	rootCmd.AddCommand(indexCmd)
}
