package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/kozaktomas/face-clock/internal/database/postgres"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var adminResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username>",
	Short: "Reset an admin's password",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminResetPassword,
}

var adminSetUsernameCmd = &cobra.Command{
	Use:   "set-username <username> <new-username>",
	Short: "Rename an admin account",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdminSetUsername,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminResetPasswordCmd)
	adminCmd.AddCommand(adminSetUsernameCmd)

	adminResetPasswordCmd.Flags().String("password", "", "New password (required)")
}

func runAdminResetPassword(cmd *cobra.Command, args []string) error {
	password := mustGetString(cmd, "password")
	if password == "" {
		return errors.New("--password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	pool, err := openPool()
	if err != nil {
		return err
	}
	defer pool.Close()

	admins := postgres.NewAdminRepository(pool)
	admin, err := admins.GetByUsername(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("looking up admin %q: %w", args[0], err)
	}
	if err := admins.UpdatePassword(cmd.Context(), admin.ID, string(hash)); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	fmt.Printf("Password updated for %q\n", args[0])
	return nil
}

func runAdminSetUsername(cmd *cobra.Command, args []string) error {
	pool, err := openPool()
	if err != nil {
		return err
	}
	defer pool.Close()

	admins := postgres.NewAdminRepository(pool)
	admin, err := admins.GetByUsername(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("looking up admin %q: %w", args[0], err)
	}
	if err := admins.UpdateUsername(cmd.Context(), admin.ID, args[1]); err != nil {
		return fmt.Errorf("renaming admin: %w", err)
	}

	fmt.Printf("Renamed admin %q to %q\n", args[0], args[1])
	return nil
}
