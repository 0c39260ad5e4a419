package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvHeader matches the original spreadsheet layout: date, name, clock-in
// time, clock-out time.
var csvHeader = []string{"日付", "名前", "出勤時刻", "退勤時刻"}

// utf8BOM makes Excel detect UTF-8 so non-ASCII employee names render
// correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV serializes summary rows as UTF-8 CSV with a BOM prefix and the
// fixed four-column header.
func WriteCSV(w io.Writer, rows []SummaryRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Date, row.Name, row.ClockIn, row.ClockOut}); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
