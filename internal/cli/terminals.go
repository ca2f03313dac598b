package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var terminalScopes []string

var terminalsCmd = &cobra.Command{
	Use:   "terminals",
	Short: "Manage terminals",
	Long:  "Manage the point-of-sale devices allowed to call the API",
}

var terminalsAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Register a terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		terminal, secret, err := services.AuthService.CreateTerminal(cmd.Context(), strings.Join(args, " "), terminalScopes)
		if err != nil {
			return fmt.Errorf("failed to create terminal: %w", err)
		}

		fmt.Println("Terminal created successfully")
		fmt.Printf("Terminal ID: %s\n", terminal.ID)
		fmt.Printf("Terminal Secret: %s\n", secret)
		fmt.Println("\nIMPORTANT: Save the terminal secret now. It will not be shown again!")
		return nil
	},
}

var terminalsUpdateCmd = &cobra.Command{
	Use:   "update <terminal-id> [new-label]",
	Short: "Update a terminal's label or scopes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		if _, err := services.AuthService.UpdateTerminal(cmd.Context(), args[0], strings.Join(args[1:], " "), terminalScopes); err != nil {
			return fmt.Errorf("failed to update terminal: %w", err)
		}

		fmt.Printf("Terminal '%s' updated successfully\n", args[0])
		return nil
	},
}

var terminalsDeleteCmd = &cobra.Command{
	Use:   "delete <terminal-id>",
	Short: "Delete a terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		fmt.Printf("Are you sure you want to delete terminal '%s'? (yes/no): ", id)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Cancelled")
			return nil
		}

		if err := services.AuthService.DeleteTerminal(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete terminal: %w", err)
		}

		fmt.Printf("Terminal '%s' deleted successfully\n", id)
		return nil
	},
}

var terminalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List terminals",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		terminals, err := services.AuthService.ListTerminals(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list terminals: %w", err)
		}

		if len(terminals) == 0 {
			fmt.Println("No terminals found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tSCOPES\tCREATED AT")
		for _, t := range terminals {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Label, strings.Join(t.Scopes, ","), t.CreatedAt.Format(timeLayout))
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(terminalsCmd)
	terminalsCmd.AddCommand(terminalsAddCmd)
	terminalsCmd.AddCommand(terminalsUpdateCmd)
	terminalsCmd.AddCommand(terminalsDeleteCmd)
	terminalsCmd.AddCommand(terminalsListCmd)

	for _, c := range []*cobra.Command{terminalsAddCmd, terminalsUpdateCmd} {
		c.Flags().StringSliceVar(&terminalScopes, "scope", nil, "granted scope (clients, products, sales, terminals or *), repeatable")
	}
}
