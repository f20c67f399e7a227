package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/andy/invoicewiz/internal/domain"
	"github.com/andy/invoicewiz/internal/validation"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage issued invoices",
	Long:  `List, show, export and track the payment status of issued invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var status *domain.InvoiceStatus
		if cmd.Flags().Changed("status") {
			statusStr, _ := cmd.Flags().GetString("status")
			s, err := domain.ParseInvoiceStatus(statusStr)
			if err != nil {
				return err
			}
			status = &s
		}

		invoices, err := appInstance.InvoiceService.List(ctx, status)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(invoices) == 0 {
			fmt.Fprintln(out, "No invoices found")
			return nil
		}

		printInvoiceTable(out, invoices)
		fmt.Fprintf(out, "\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id|number]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		invoice, err := appInstance.InvoiceService.Find(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		printInvoice(cmd.OutOrStdout(), invoice)
		return nil
	},
}

var invoicesExportCmd = &cobra.Command{
	Use:   "export [id|number]",
	Short: "Render an invoice as PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoice, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		dir, _ := cmd.Flags().GetString("out")
		if dir == "" {
			dir = appInstance.Config.Invoice.OutputDir
		}

		path, err := appInstance.InvoiceService.Export(ctx, invoice.ID, dir)
		if err != nil {
			return fmt.Errorf("failed to export invoice: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice %s written to %s\n", invoice.Number, path)
		return nil
	},
}

var invoicesMarkSentCmd = &cobra.Command{
	Use:   "mark-sent [id|number]",
	Short: "Mark an invoice as sent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoice, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		dateStr, _ := cmd.Flags().GetString("date")
		sentAt, err := parseDate(dateStr, time.Now())
		if err != nil {
			return fmt.Errorf("invalid sent date: %w", err)
		}

		if _, err := appInstance.InvoiceService.MarkSent(ctx, invoice.ID, sentAt); err != nil {
			return fmt.Errorf("failed to mark invoice as sent: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice %s marked as sent on %s\n", invoice.Number, sentAt.Format(validation.DateLayout))
		return nil
	},
}

var invoicesMarkPaidCmd = &cobra.Command{
	Use:   "mark-paid [id|number]",
	Short: "Mark an invoice as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoice, err := appInstance.InvoiceService.Find(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		dateStr, _ := cmd.Flags().GetString("date")
		paidAt, err := parseDate(dateStr, time.Now())
		if err != nil {
			return fmt.Errorf("invalid paid date: %w", err)
		}

		if _, err := appInstance.InvoiceService.MarkPaid(ctx, invoice.ID, paidAt); err != nil {
			return fmt.Errorf("failed to mark invoice as paid: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice %s marked as paid on %s\n", invoice.Number, paidAt.Format(validation.DateLayout))
		return nil
	},
}

var invoicesCheckOverdueCmd = &cobra.Command{
	Use:   "check-overdue",
	Short: "Flag sent invoices whose due date has passed",
	RunE: func(cmd *cobra.Command, args []string) error {
		overdue, err := appInstance.InvoiceService.CheckOverdue(context.Background(), time.Now())
		if err != nil {
			return fmt.Errorf("failed to check overdue invoices: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(overdue) == 0 {
			fmt.Fprintln(out, "No overdue invoices")
			return nil
		}

		printInvoiceTable(out, overdue)
		fmt.Fprintf(out, "\n%d invoice(s) now overdue\n", len(overdue))
		return nil
	},
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesExportCmd)
	invoicesCmd.AddCommand(invoicesMarkSentCmd)
	invoicesCmd.AddCommand(invoicesMarkPaidCmd)
	invoicesCmd.AddCommand(invoicesCheckOverdueCmd)

	invoicesListCmd.Flags().String("status", "", "Filter by status (issued, sent, paid, overdue)")
	invoicesExportCmd.Flags().String("out", "", "Output directory (defaults to invoice.output_dir)")
	invoicesMarkSentCmd.Flags().String("date", "", "Date sent (defaults to today)")
	invoicesMarkPaidCmd.Flags().String("date", "", "Payment date (defaults to today)")
}
