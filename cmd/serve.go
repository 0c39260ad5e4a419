package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-clock/internal/config"
	"github.com/kozaktomas/face-clock/internal/database/postgres"
	"github.com/kozaktomas/face-clock/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance server",
	Long: `Start the Face Clock web server.
The server exposes the kiosk and admin API: employee registration,
face matching, attendance recording and the CSV export.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
}

// initHNSW builds the in-memory HNSW index over all registered employees.
func initHNSW(ctx context.Context, employees *postgres.EmployeeRepository) {
	fmt.Printf("Building in-memory HNSW index for face matching...\n")
	if err := employees.EnableHNSW(ctx); err != nil {
		fmt.Printf("Warning: Failed to build HNSW index: %v\n", err)
		fmt.Printf("Face matching will use PostgreSQL queries (slower)\n")
	} else {
		fmt.Printf("HNSW index built with %d employees (in-memory only)\n", employees.HNSWCount())
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil && port != 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}

	loc, err := time.LoadLocation(cfg.Export.Timezone)
	if err != nil {
		return fmt.Errorf("invalid EXPORT_TIMEZONE %q: %w", cfg.Export.Timezone, err)
	}

	fmt.Printf("Connecting to PostgreSQL database...\n")
	pool, err := postgres.Initialize(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pool.Close()

	employeeRepo := postgres.NewEmployeeRepository(pool, cfg.Matching.Dimension)
	if cfg.Web.HNSWEnabled {
		initHNSW(cmd.Context(), employeeRepo)
	}

	stores := web.Stores{
		Employees:  employeeRepo,
		Attendance: postgres.NewAttendanceRepository(pool),
		Admins:     postgres.NewAdminRepository(pool),
		Sessions:   postgres.NewSessionRepository(pool),
	}

	server := web.NewServer(cfg, stores, loc)

	// Handle graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Printf("Face Clock running at http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	<-done
	fmt.Println("\nShutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	fmt.Println("Server stopped")
	return nil
}
