// Package facematch implements the face matching decision: given a probe
// descriptor captured live and a company's registered roster, find the
// closest registered person within a distance threshold.
package facematch

import (
	"github.com/kozaktomas/face-clock/internal/database"
)

// Match scans candidates linearly and returns the one whose descriptor has
// the smallest Euclidean distance to probe, provided that distance is
// strictly below threshold. Ties resolve to the lowest candidate ID so that
// results are reproducible. A miss (empty roster, or nothing under the
// threshold) returns (nil, 0) and is a normal outcome, not an error.
//
// The scan is O(n) per probe. Company rosters are expected to stay in the
// tens to low hundreds; beyond that, the HNSW-backed FindNearest path in
// internal/database serves the same contract.
func Match(probe []float32, candidates []database.Descriptor, threshold float64) (*database.Descriptor, float64) {
	var best *database.Descriptor
	var bestDist float64

	for i := range candidates {
		c := &candidates[i]
		dist := database.EuclideanDistance(probe, c.Embedding)
		if dist >= threshold {
			continue
		}
		if best == nil || dist < bestDist || (dist == bestDist && c.ID < best.ID) {
			best = c
			bestDist = dist
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestDist
}

// ValidateProbe checks that a probe descriptor has the expected
// dimensionality. The embedding model is trusted to produce fixed-length
// vectors, but the check stays as a defensive guard on every input path.
func ValidateProbe(probe []float32, dim int) error {
	if len(probe) != dim {
		return database.Validationf("descriptor must have %d components, got %d", dim, len(probe))
	}
	return nil
}
