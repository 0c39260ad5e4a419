package facematch

import (
	"testing"

	"github.com/kozaktomas/face-clock/internal/database"
)

func descriptor(id int64, name string, fill float32) database.Descriptor {
	v := make([]float32, 128)
	for i := range v {
		v[i] = fill
	}
	return database.Descriptor{ID: id, Name: name, Embedding: v}
}

func probe(fill float32) []float32 {
	v := make([]float32, 128)
	for i := range v {
		v[i] = fill
	}
	return v
}

func TestMatchEmptyRoster(t *testing.T) {
	if m, _ := Match(probe(0.1), nil, 0.5); m != nil {
		t.Errorf("expected no match against empty roster, got %q", m.Name)
	}
}

func TestMatchExact(t *testing.T) {
	roster := []database.Descriptor{
		descriptor(1, "Suzuki", 0.1),
		descriptor(2, "Tanaka", 0.9),
	}

	m, dist := Match(probe(0.1), roster, 0.5)
	if m == nil {
		t.Fatal("expected a match")
	}
	if m.ID != 1 {
		t.Errorf("expected Suzuki (id 1), got %q (id %d)", m.Name, m.ID)
	}
	if dist != 0 {
		t.Errorf("expected distance 0 for identical descriptors, got %f", dist)
	}
}

func TestMatchAboveThreshold(t *testing.T) {
	// All components differ by 0.5, so the distance is sqrt(128)*0.5 ≈ 5.66.
	roster := []database.Descriptor{descriptor(1, "Suzuki", 0.5)}

	if m, _ := Match(probe(0), roster, 0.5); m != nil {
		t.Errorf("expected no match above threshold, got %q", m.Name)
	}
}

func TestMatchThresholdIsStrict(t *testing.T) {
	// A candidate at exactly the threshold distance must be rejected.
	p := probe(0)
	v := make([]float32, 128)
	v[0] = 0.5
	roster := []database.Descriptor{{ID: 1, Name: "Suzuki", Embedding: v}}

	if m, _ := Match(p, roster, 0.5); m != nil {
		t.Errorf("distance equal to threshold must not match, got %q", m.Name)
	}
}

func TestMatchPicksNearest(t *testing.T) {
	roster := []database.Descriptor{
		descriptor(1, "Suzuki", 0.02),
		descriptor(2, "Tanaka", 0.01),
	}

	m, _ := Match(probe(0.012), roster, 0.5)
	if m == nil || m.ID != 2 {
		t.Fatalf("expected nearest candidate Tanaka (id 2), got %v", m)
	}
}

func TestMatchTieBreakLowestID(t *testing.T) {
	// Two employees registered with identical descriptors (duplicate names
	// are legal, identical faces are not forbidden either). The winner must
	// be deterministic: lowest ID.
	roster := []database.Descriptor{
		descriptor(5, "Suzuki", 0.1),
		descriptor(3, "Suzuki", 0.1),
	}

	m, _ := Match(probe(0.1), roster, 0.5)
	if m == nil || m.ID != 3 {
		t.Fatalf("expected tie-break to id 3, got %v", m)
	}
}

func TestMatchSkipsMalformedCandidates(t *testing.T) {
	roster := []database.Descriptor{
		{ID: 1, Name: "Broken", Embedding: []float32{0.1, 0.2}},
		descriptor(2, "Suzuki", 0.1),
	}

	m, _ := Match(probe(0.1), roster, 0.5)
	if m == nil || m.ID != 2 {
		t.Fatalf("expected malformed candidate to be skipped, got %v", m)
	}
}

func TestValidateProbe(t *testing.T) {
	if err := ValidateProbe(probe(0.1), 128); err != nil {
		t.Errorf("expected valid probe, got %v", err)
	}

	err := ValidateProbe([]float32{1, 2, 3}, 128)
	if err == nil {
		t.Fatal("expected error for wrong dimensionality")
	}
	if !database.IsValidation(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
}

func TestNormalizeEmployeeName(t *testing.T) {
	cases := map[string]string{
		"Jiří Novák":   "jiri novak",
		"  SUZUKI  ":   "suzuki",
		"José  García": "jose garcia",
		"鈴木":           "鈴木",
	}
	for in, want := range cases {
		if got := NormalizeEmployeeName(in); got != want {
			t.Errorf("NormalizeEmployeeName(%q) = %q, want %q", in, got, want)
		}
	}
}
