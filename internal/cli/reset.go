package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andy/invoicewiz/internal/db"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database.

Examples:
  invoicewiz reset invoices   # Delete all invoices and their positions
  invoicewiz reset all        # Also forget the remembered issuer profile`,
}

var resetInvoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Delete all invoices and their positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return resetTables(cmd, "This will delete ALL invoices. Continue?",
			"All invoices have been deleted.",
			db.TableInvoicePositions, db.TableInvoices)
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: invoices and the issuer profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return resetTables(cmd, "This will delete ALL data (invoices and issuer profile). Continue?",
			"All data has been deleted.",
			db.TableInvoicePositions, db.TableInvoices, db.TableIssuerProfile)
	},
}

func resetTables(cmd *cobra.Command, question, done string, tables ...string) error {
	out := cmd.OutOrStdout()
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !confirmPrompt(out, cmd.InOrStdin(), question) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	if err := appInstance.DB.Truncate(context.Background(), tables...); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}

	fmt.Fprintln(out, done)
	return nil
}

func confirmPrompt(out io.Writer, in io.Reader, message string) bool {
	fmt.Fprintf(out, "%s [y/N] ", message)
	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.AddCommand(resetInvoicesCmd)
	resetCmd.AddCommand(resetAllCmd)
	resetCmd.PersistentFlags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
