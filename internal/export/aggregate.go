// Package export reduces a company's attendance history to one summary row
// per employee and calendar day, and serializes the result as CSV.
package export

import (
	"sort"
	"time"

	"github.com/kozaktomas/face-clock/internal/constants"
	"github.com/kozaktomas/face-clock/internal/database"
)

// SummaryRow is one line of the attendance summary: the earliest clock-in
// and the latest clock-out of one employee on one calendar day.
type SummaryRow struct {
	Date     string // 2006/01/02 in the export timezone
	Name     string
	ClockIn  string // 15:04:05, or the placeholder when the day has none
	ClockOut string
}

type groupKey struct {
	date       string
	employeeID int64
}

// Aggregate groups records by (calendar day, employee) in the given zone and
// keeps the minimum clock-in time and the maximum clock-out time per group.
// Duplicate submits collapse into the same row. Grouping keys on the
// employee ID, not the name, so two employees who share a name get separate
// rows. The reduction is a true min/max, so the result does not depend on
// the input order.
func Aggregate(records []database.AttendanceRecord, loc *time.Location) []SummaryRow {
	type group struct {
		SummaryRow
		employeeID int64
	}

	groups := make(map[groupKey]*group)
	for i := range records {
		rec := &records[i]
		local := rec.Timestamp.In(loc)
		date := local.Format("2006/01/02")
		// Zero-padded HH:MM:SS compares lexicographically the same as
		// chronologically within one day.
		clock := local.Format("15:04:05")

		key := groupKey{date: date, employeeID: rec.EmployeeID}
		g, ok := groups[key]
		if !ok {
			g = &group{
				SummaryRow: SummaryRow{Date: date, Name: rec.EmployeeName},
				employeeID: rec.EmployeeID,
			}
			groups[key] = g
		}

		switch rec.Kind {
		case database.ClockIn:
			if g.ClockIn == "" || clock < g.ClockIn {
				g.ClockIn = clock
			}
		case database.ClockOut:
			if g.ClockOut == "" || clock > g.ClockOut {
				g.ClockOut = clock
			}
		}
	}

	rows := make([]SummaryRow, 0, len(groups))
	keys := make([]*group, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Date != keys[j].Date {
			return keys[i].Date < keys[j].Date
		}
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].employeeID < keys[j].employeeID
	})

	for _, g := range keys {
		row := g.SummaryRow
		if row.ClockIn == "" {
			row.ClockIn = constants.MissingTimePlaceholder
		}
		if row.ClockOut == "" {
			row.ClockOut = constants.MissingTimePlaceholder
		}
		rows = append(rows, row)
	}
	return rows
}
