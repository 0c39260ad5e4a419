package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Matching.Threshold != 0.5 {
		t.Errorf("expected default threshold 0.5, got %f", cfg.Matching.Threshold)
	}
	if cfg.Matching.Dimension != 128 {
		t.Errorf("expected default dimension 128, got %d", cfg.Matching.Dimension)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("expected default max open conns 25, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Web.Port)
	}
	if cfg.Export.Timezone != "Asia/Tokyo" {
		t.Errorf("expected default timezone Asia/Tokyo, got %s", cfg.Export.Timezone)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FACE_MATCH_THRESHOLD", "0.6")
	t.Setenv("EMBEDDING_DIM", "512")
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("EXPORT_TIMEZONE", "UTC")

	cfg := Load()

	if cfg.Matching.Threshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %f", cfg.Matching.Threshold)
	}
	if cfg.Matching.Dimension != 512 {
		t.Errorf("expected dimension 512, got %d", cfg.Matching.Dimension)
	}
	if cfg.Web.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Web.Port)
	}
	if cfg.Export.Timezone != "UTC" {
		t.Errorf("expected timezone UTC, got %s", cfg.Export.Timezone)
	}
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("FACE_MATCH_THRESHOLD", "not-a-number")
	t.Setenv("EMBEDDING_DIM", "-5")

	cfg := Load()

	if cfg.Matching.Threshold != 0.5 {
		t.Errorf("expected fallback threshold 0.5, got %f", cfg.Matching.Threshold)
	}
	if cfg.Matching.Dimension != 128 {
		t.Errorf("expected fallback dimension 128, got %d", cfg.Matching.Dimension)
	}
}
