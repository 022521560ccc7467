package cmd

import (
	"github.com/spf13/cobra"

	"orbnaments/internal/application/commands"
)

var removeConflictsCmd = &cobra.Command{
	Use:   "remove-conflicts",
	Short: "Move sync conflict files to the trash",
	Long: `Find every file whose name contains the sync conflict marker
(.sync-conflict by default) and move it to the vault trash.

If any file cannot be trashed the whole run is reported as failed.

Examples:
  orbnaments-cli remove-conflicts
  orbnaments-cli remove-conflicts --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outcome, err := GetApp().RemoveSyncConflicts(cmd.Context(), dryRun)
		if err != nil {
			return &failure{notice: commands.RemoveSyncConflictsFailure(err), err: err}
		}
		printOutcome(cmd.OutOrStdout(), outcome)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeConflictsCmd)
}
