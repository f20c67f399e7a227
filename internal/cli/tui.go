package cli

import (
	"fmt"

	"github.com/andy/invoicewiz/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive invoice wizard and invoice browser.`,
	RunE:  launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) error {
	if err := tui.Run(appInstance); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
