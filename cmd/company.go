package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/kozaktomas/face-clock/internal/config"
	"github.com/kozaktomas/face-clock/internal/database/postgres"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage companies (tenants)",
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all companies",
	RunE:  runCompanyList,
}

var companyCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a company with its first admin account",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompanyCreate,
}

var companyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a company and all its employees and records",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompanyDelete,
}

func init() {
	rootCmd.AddCommand(companyCmd)
	companyCmd.AddCommand(companyListCmd)
	companyCmd.AddCommand(companyCreateCmd)
	companyCmd.AddCommand(companyDeleteCmd)

	companyCreateCmd.Flags().String("admin-username", "", "Username for the company's admin account (required)")
	companyCreateCmd.Flags().String("admin-password", "", "Password for the company's admin account (required)")
}

// openPool connects to the database using the environment configuration.
func openPool() (*postgres.Pool, error) {
	cfg := config.Load()
	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	pool, err := postgres.Initialize(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	return pool, nil
}

func runCompanyList(cmd *cobra.Command, args []string) error {
	pool, err := openPool()
	if err != nil {
		return err
	}
	defer pool.Close()

	companies, err := postgres.NewCompanyRepository(pool).List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing companies: %w", err)
	}

	if len(companies) == 0 {
		fmt.Println("No companies found")
		return nil
	}
	for _, c := range companies {
		fmt.Printf("%d\t%s\t(created %s)\n", c.ID, c.Name, c.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func runCompanyCreate(cmd *cobra.Command, args []string) error {
	username := mustGetString(cmd, "admin-username")
	password := mustGetString(cmd, "admin-password")
	if username == "" || password == "" {
		return errors.New("--admin-username and --admin-password are required")
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

	company, err := postgres.NewCompanyRepository(pool).Create(cmd.Context(), args[0], username, string(hash))
	if err != nil {
		return fmt.Errorf("creating company: %w", err)
	}

	fmt.Printf("Created company %q (id %d) with admin %q\n", company.Name, company.ID, username)
	return nil
}

func runCompanyDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid company id %q", args[0])
	}

	pool, err := openPool()
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.NewCompanyRepository(pool).Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("deleting company %d: %w", id, err)
	}

	fmt.Printf("Deleted company %d\n", id)
	return nil
}
