package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-clock/internal/config"
	"github.com/kozaktomas/face-clock/internal/database"
	"github.com/kozaktomas/face-clock/internal/database/postgres"
	"github.com/kozaktomas/face-clock/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export attendance summaries as CSV",
	Long: `Export daily attendance summaries as CSV files, one per company.
Each row holds the date, employee name, first clock-in and last clock-out.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int64("company", 0, "Export a single company by id (default: all companies)")
	exportCmd.Flags().String("dir", ".", "Directory to write CSV files into")
}

func exportCompany(cmd *cobra.Command, attendance *postgres.AttendanceRepository, company database.Company, loc *time.Location, dir string) error {
	records, err := attendance.AllOrdered(cmd.Context(), company.ID)
	if err != nil {
		return fmt.Errorf("loading records for company %d: %w", company.ID, err)
	}
	rows := export.Aggregate(records, loc)

	path := filepath.Join(dir, fmt.Sprintf("attendance_%d.csv", company.ID))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := export.WriteCSV(f, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	loc, err := time.LoadLocation(cfg.Export.Timezone)
	if err != nil {
		return fmt.Errorf("invalid EXPORT_TIMEZONE %q: %w", cfg.Export.Timezone, err)
	}

	pool, err := openPool()
	if err != nil {
		return err
	}
	defer pool.Close()

	companyID := mustGetInt64(cmd, "company")
	dir := mustGetString(cmd, "dir")

	companies, err := postgres.NewCompanyRepository(pool).List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing companies: %w", err)
	}
	if companyID != 0 {
		filtered := companies[:0]
		for _, c := range companies {
			if c.ID == companyID {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("company %d not found", companyID)
		}
		companies = filtered
	}

	attendance := postgres.NewAttendanceRepository(pool)

	bar := progressbar.NewOptions(len(companies),
		progressbar.OptionSetDescription("Exporting attendance"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("companies"),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
	for _, company := range companies {
		if err := exportCompany(cmd, attendance, company, loc, dir); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	fmt.Println()

	fmt.Printf("Exported %d compan%s to %s\n", len(companies), pluralY(len(companies)), dir)
	return nil
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
