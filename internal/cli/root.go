package cli

import (
	"context"

	"github.com/andy/invoicewiz/internal/app"
	"github.com/spf13/cobra"
)

// skipApp marks commands that must run without opening the database.
const skipApp = "skip-app"

var (
	appInstance *app.App
	configPath  string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "invoicewiz",
	Short: "Create and manage invoices from the terminal",
	Long: `invoicewiz walks you through creating an invoice step by step:
your details, the client, the invoice text and its positions. Finished
invoices are numbered, stored in an encrypted database and exported as PDF.

Running invoicewiz without arguments launches the interactive wizard.
Use subcommands for CLI operations.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if appInstance != nil || cmd.Annotations[skipApp] == "true" {
			return nil
		}
		a, err := app.New(context.Background(), app.Options{ConfigPath: configPath, Verbose: verbose})
		if err != nil {
			return err
		}
		SetApp(a)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command and releases the app afterwards
func Execute() error {
	err := rootCmd.Execute()
	if appInstance != nil {
		appInstance.Close()
		appInstance = nil
	}
	return err
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/invoicewiz/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
}
