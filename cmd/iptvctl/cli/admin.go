package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"iptvsite/internal/repository"
	"iptvsite/internal/services"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminResetDefaultCmd())

	return cmd
}

// ---------- admin create ----------

func newAdminCreateCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Example: `  iptvctl admin create --email owner@example.com
  iptvctl admin create --email owner@example.com --password 's3cretpass'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pw, err := promptPassword(cmd.OutOrStdout())
				if err != nil {
					return err
				}
				password = pw
			}

			cfg, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			auth := services.NewAuthService(repository.NewAdminRepository(pool), cfg.JWTSecret, cfg.SessionTTL)
			admin, err := auth.CreateAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %q (id %d)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func promptPassword(out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--password is required when stdin is not a terminal")
	}

	fmt.Fprint(out, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(out, "Confirm password: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read confirmation: %w", err)
	}

	if string(pw) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	return string(pw), nil
}

// ---------- admin reset-default ----------

func newAdminResetDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-default",
		Short: "Restore DEFAULT_ADMIN_PASSWORD on the DEFAULT_ADMIN_EMAIL account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := services.NewPasswordService(
				repository.NewAdminRepository(pool),
				repository.NewPasswordResetRepository(pool),
				services.NewEmailService(cfg),
				services.PasswordServiceConfig{
					DefaultAdminEmail:    cfg.DefaultAdminEmail,
					DefaultAdminPassword: cfg.DefaultAdminPassword,
					AllowDefaultReset:    true,
				},
			)
			if err := svc.ResetToDefaultCredentials(cmd.Context(), cfg.DefaultAdminEmail); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password for %s reset to the configured default\n", cfg.DefaultAdminEmail)
			return nil
		},
	}
}
