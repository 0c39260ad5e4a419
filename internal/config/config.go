package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed matching.yaml
var matchingYAML []byte

type Config struct {
	Database DatabaseConfig
	Web      WebConfig
	Matching MatchingConfig
	Export   ExportConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type WebConfig struct {
	Port          int
	Host          string
	SessionSecret string // Secret for signing session cookies
	HNSWEnabled   bool   // Build an in-memory HNSW index for matching at startup
}

type MatchingConfig struct {
	Threshold float64 `yaml:"threshold"`
	Dimension int     `yaml:"dimension"`
}

type ExportConfig struct {
	Timezone string // IANA zone name used to bucket records into days
}

type matchingFile struct {
	Matching MatchingConfig `yaml:"matching"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var mf matchingFile
	if err := yaml.Unmarshal(matchingYAML, &mf); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded matching.yaml: " + err.Error())
	}

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Web: WebConfig{
			Port:          envInt("WEB_PORT", 8080),
			Host:          envString("WEB_HOST", "0.0.0.0"),
			SessionSecret: os.Getenv("WEB_SESSION_SECRET"),
			HNSWEnabled:   os.Getenv("HNSW_INDEX") == "1" || os.Getenv("HNSW_INDEX") == "true",
		},
		Matching: MatchingConfig{
			Threshold: envFloat("FACE_MATCH_THRESHOLD", mf.Matching.Threshold),
			Dimension: envInt("EMBEDDING_DIM", mf.Matching.Dimension),
		},
		Export: ExportConfig{
			Timezone: envString("EXPORT_TIMEZONE", "Asia/Tokyo"),
		},
	}
}
