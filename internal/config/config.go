package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port         string
	DatabaseURL  string
	QuoteBaseURL string

	PollInterval time.Duration
	FetchRetries int
	FetchBackoff time.Duration

	PositionFile string
	SnapshotFile string
	HistoryFile  string
	ORBFile      string
	HistoryLimit int

	MoveToBreakevenAtTP1 bool
	MoveToTP1AtTP2       bool

	PremarketWindow time.Duration

	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int

	RunOnce bool
}

// FromEnv builds the configuration from environment variables with defaults.
func FromEnv() Config {
	cfg := Config{
		Port:                 envString("PORT", "8080"),
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		QuoteBaseURL:         strings.TrimSpace(os.Getenv("QUOTE_BASE_URL")),
		PollInterval:         envDuration("POLL_INTERVAL", time.Minute),
		FetchRetries:         envInt("FETCH_RETRIES", 3),
		FetchBackoff:         envDuration("FETCH_BACKOFF", 2*time.Second),
		PositionFile:         envString("POSITION_FILE", "active_positions.json"),
		SnapshotFile:         envString("SNAPSHOT_FILE", "signal_snapshot.json"),
		HistoryFile:          envString("HISTORY_FILE", "signal_history.json"),
		ORBFile:              envString("ORB_FILE", "opening_ranges.json"),
		HistoryLimit:         envInt("HISTORY_LIMIT", 100),
		MoveToBreakevenAtTP1: envBool("TRAIL_BREAKEVEN_AT_TP1", true),
		MoveToTP1AtTP2:       envBool("TRAIL_TP1_AT_TP2", true),
		PremarketWindow:      envDuration("PREMARKET_WINDOW", 75*time.Minute),
		LogFile:              envString("LOG_FILE", "biasbuster.log"),
		LogMaxSizeMB:         envInt("LOG_MAX_SIZE_MB", 20),
		LogMaxBackups:        envInt("LOG_MAX_BACKUPS", 5),
		RunOnce:              envBool("RUN_ONCE", false),
	}
	return cfg
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
