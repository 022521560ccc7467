package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"orbnaments/internal/app"
	"orbnaments/internal/config"
)

var (
	vaultPath string
	logLevel  string
	dryRun    bool
	vault     *app.App
)

var rootCmd = &cobra.Command{
	Use:   "orbnaments-cli",
	Short: "Vault maintenance for Obsidian",
	Long: `orbnaments-cli cleans up an Obsidian vault.

It removes Syncthing conflict copies (files named *.sync-conflict*) to the
vault trash and files root-level notes that link to a given note into a
dedicated folder.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := config.LoadEnvFile(".env"); err != nil {
			return err
		}

		a, err := app.New(app.Options{
			VaultPath: vaultPath,
			LogLevel:  logLevel,
			LogOutput: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		vault = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if vault == nil {
			return nil
		}
		err := vault.Close()
		vault = nil
		return err
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		if vault != nil {
			vault.Close()
		}
		os.Exit(1)
	}
}

func init() {
	// Resolved after .env is loaded, so ORBNAMENTS_VAULT there is honoured
	rootCmd.PersistentFlags().StringVarP(&vaultPath, "vault", "v", "", "path to the vault (default $"+config.EnvPrefix+"_VAULT or "+config.DefaultVaultPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to the vault setting")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "report what would change without touching the vault")
}

// GetApp returns the initialized vault application
func GetApp() *app.App {
	return vault
}
