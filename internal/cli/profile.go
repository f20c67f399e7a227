package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the remembered issuer details",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the issuer details used to prefill the wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		issuer, err := appInstance.InvoiceService.LastIssuer(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		out := cmd.OutOrStdout()
		if issuer == nil {
			fmt.Fprintln(out, "No issuer remembered yet. It is saved when you issue your first invoice.")
			return nil
		}

		rows := [][2]string{
			{"Name", issuer.Name},
			{"Address", issuer.Address},
			{"Postcode", issuer.Postcode},
			{"Country", issuer.Country},
			{"Tax number", issuer.TaxNumber},
			{"Email", issuer.Email},
			{"Website", issuer.Website},
			{"Bank", issuer.BankName},
			{"IBAN", issuer.IBAN},
			{"BIC", issuer.BIC},
		}
		for _, r := range rows {
			if r[1] != "" {
				fmt.Fprintf(out, "%-11s %s\n", r[0]+":", r[1])
			}
		}
		return nil
	},
}

var profileClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the remembered issuer details",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.ProfileRepo.Delete(context.Background()); err != nil {
			return fmt.Errorf("failed to clear profile: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Issuer profile cleared")
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileClearCmd)
}
