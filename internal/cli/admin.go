package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin operations (purge, export, import)",
	}

	cmd.AddCommand(newAdminLoginCmd())
	cmd.AddCommand(newAdminLogoutCmd())
	cmd.AddCommand(newPurgeCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())

	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the admin secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("MGRID_ADMIN_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("admin secret required (use --secret or MGRID_ADMIN_SECRET)")
			}

			var result AdminLoginResult
			if err := client.Post("/api/v1/admin/login", map[string]string{"secret": secret}, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Admin secret (env: MGRID_ADMIN_SECRET)")

	return cmd
}

func newAdminLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/admin/logout", nil, nil); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newPurgeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every assignment and free all slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("purge deletes all assignments; pass --yes to confirm")
			}

			var result PurgeResult
			if err := client.Delete("/api/v1/assignments", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the purge")

	return cmd
}

func newExportCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the roster as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result json.RawMessage
			if err := client.Get("/api/v1/assignments/export", &result); err != nil {
				return err
			}

			if outFile != "" {
				if err := os.WriteFile(outFile, append(result, '\n'), 0644); err != nil {
					return err
				}
				out := NewOutput(cfg.Output)
				out.PrintMessage(fmt.Sprintf("Export written to %s", outFile))
				return nil
			}

			fmt.Println(string(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Write export to file instead of stdout")

	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the roster from an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var export json.RawMessage = data
			var result ImportResult
			if err := client.Post("/api/v1/assignments/import", export, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
