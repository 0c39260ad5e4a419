// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Face matching constants
const (
	// EmbeddingDim is the length of a face descriptor produced by the
	// browser-side recognition model. Every stored embedding and every
	// probe must have exactly this many components.
	EmbeddingDim = 128

	// DefaultDistanceThreshold is the default maximum Euclidean distance
	// for a probe to be accepted as a match. Lower values = stricter matching.
	DefaultDistanceThreshold = 0.5

	// HNSWMaxNeighbors is the M parameter for the in-memory HNSW graph
	HNSWMaxNeighbors = 16
)

// Attendance constants
const (
	// RecentAttendanceLimit is the number of records returned by the
	// attendance history endpoint
	RecentAttendanceLimit = 50

	// MissingTimePlaceholder is rendered in CSV exports when a day has no
	// clock-in or no clock-out for an employee
	MissingTimePlaceholder = "--:--:--"
)

// Export constants
const (
	// DefaultExportTimezone is the zone used to bucket attendance records
	// into calendar days for CSV export
	DefaultExportTimezone = "Asia/Tokyo"

	// ExportFilename is the attachment filename for CSV downloads
	ExportFilename = "attendance.csv"
)
