package cli

import (
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage operators",
	Long:  "Manage the operator accounts that sign in to the API",
}

var userDisplayName string

// readNewPassword prompts twice and returns the password once both entries
// agree.
func readNewPassword(label string) (string, error) {
	fmt.Printf("Enter %s: ", label)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Printf("Confirm %s: ", label)
	confirmPassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(password) != string(confirmPassword) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(password), nil
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add an operator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		password, err := readNewPassword("password")
		if err != nil {
			return err
		}

		if _, err := services.AuthService.CreateOperator(cmd.Context(), args[0], userDisplayName, password); err != nil {
			return fmt.Errorf("failed to create operator: %w", err)
		}

		fmt.Printf("Operator '%s' created successfully\n", args[0])
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete an operator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := args[0]

		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		fmt.Printf("Are you sure you want to delete operator '%s'? (yes/no): ", username)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Cancelled")
			return nil
		}

		if err := services.AuthService.DeleteOperator(cmd.Context(), username); err != nil {
			return fmt.Errorf("failed to delete operator: %w", err)
		}

		fmt.Printf("Operator '%s' deleted successfully\n", username)
		return nil
	},
}

var usersPasswordCmd = &cobra.Command{
	Use:   "password <username>",
	Short: "Change an operator's password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		password, err := readNewPassword("new password")
		if err != nil {
			return err
		}

		if err := services.AuthService.ChangePassword(cmd.Context(), args[0], password); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		fmt.Printf("Password updated for operator '%s'\n", args[0])
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List operators",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		operators, err := services.AuthService.ListOperators(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list operators: %w", err)
		}

		if len(operators) == 0 {
			fmt.Println("No operators found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tNAME\tCREATED AT\tUPDATED AT")
		for _, op := range operators {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				op.Username,
				op.DisplayName,
				op.CreatedAt.Format(timeLayout),
				op.UpdatedAt.Format(timeLayout),
			)
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	usersCmd.AddCommand(usersPasswordCmd)
	usersCmd.AddCommand(usersListCmd)

	usersAddCmd.Flags().StringVar(&userDisplayName, "name", "", "display name")
}
