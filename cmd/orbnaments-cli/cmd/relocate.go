package cmd

import (
	"github.com/spf13/cobra"

	"orbnaments/internal/adapters/obsidian"
	"orbnaments/internal/application/commands"
)

var (
	targetNote        string
	destinationFolder string
	openTarget        bool
)

var moveLinkedCmd = &cobra.Command{
	Use:   "move-linked",
	Short: "Move root-level notes that link to a note into a folder",
	Long: `Move every file in the vault root that links to the target note into
the destination folder, creating the folder if needed. Files in subfolders
are left alone.

Both flags default to the vault settings (expenses and Finanzas unless
orbnaments.yaml or ORBNAMENTS_* variables say otherwise).

Examples:
  orbnaments-cli move-linked
  orbnaments-cli move-linked --target expenses --dest Finanzas
  orbnaments-cli move-linked --target invoices --dest Admin/Invoices --open`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		outcome, err := a.MoveLinkedFiles(cmd.Context(), targetNote, destinationFolder, dryRun)
		if err != nil {
			return &failure{notice: commands.MoveLinkedFilesFailure(err), err: err}
		}
		printOutcome(cmd.OutOrStdout(), outcome)

		if openTarget && outcome.Target != "" {
			if err := obsidian.NewOpener(a.VaultPath).OpenNote(outcome.Target); err != nil {
				a.Logger.Warn("failed to open note in Obsidian", "path", outcome.Target, "error", err)
			}
		}
		return nil
	},
}

func init() {
	moveLinkedCmd.Flags().StringVarP(&targetNote, "target", "t", "", "link name of the note, e.g. expenses")
	moveLinkedCmd.Flags().StringVarP(&destinationFolder, "dest", "d", "", "vault-relative destination folder, e.g. Finanzas")
	moveLinkedCmd.Flags().BoolVar(&openTarget, "open", false, "open the target note in Obsidian afterwards")
	rootCmd.AddCommand(moveLinkedCmd)
}
