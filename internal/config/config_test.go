package config

import (
	"testing"
	"time"

	"biasbuster-backend/internal/domain"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "POLL_INTERVAL", "FETCH_RETRIES", "FETCH_BACKOFF", "TRAIL_BREAKEVEN_AT_TP1", "TRAIL_TP1_AT_TP2", "HISTORY_LIMIT", "PREMARKET_WINDOW"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.PollInterval != time.Minute {
		t.Errorf("Expected 1m poll interval, got %s", cfg.PollInterval)
	}
	if cfg.FetchRetries != 3 || cfg.FetchBackoff != 2*time.Second {
		t.Errorf("Unexpected retry defaults: %d / %s", cfg.FetchRetries, cfg.FetchBackoff)
	}
	if !cfg.MoveToBreakevenAtTP1 || !cfg.MoveToTP1AtTP2 {
		t.Error("Trailing moves should default on")
	}
	if cfg.HistoryLimit != 100 {
		t.Errorf("Expected history limit 100, got %d", cfg.HistoryLimit)
	}
	if cfg.PremarketWindow != 75*time.Minute {
		t.Errorf("Expected a 75m premarket window, got %s", cfg.PremarketWindow)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("TRAIL_BREAKEVEN_AT_TP1", "false")
	t.Setenv("PREMARKET_WINDOW", "45m")

	cfg := FromEnv()
	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("Expected 30s, got %s", cfg.PollInterval)
	}
	if cfg.MoveToBreakevenAtTP1 {
		t.Error("Expected breakeven move disabled")
	}
	if cfg.PremarketWindow != 45*time.Minute {
		t.Errorf("Expected a 45m premarket window, got %s", cfg.PremarketWindow)
	}
}

func TestInstrumentsProfiles(t *testing.T) {
	specs := Instruments()
	if len(specs) == 0 {
		t.Fatal("Expected instruments")
	}

	byName := make(map[string]domain.InstrumentSpec, len(specs))
	for _, s := range specs {
		if _, dup := byName[s.Name]; dup {
			t.Errorf("Duplicate instrument name %s", s.Name)
		}
		byName[s.Name] = s
	}

	// Only Bitcoin and Ethereum carry the relaxed profile
	for name, s := range byName {
		want := domain.ProfileStandard
		if name == "Bitcoin" || name == "Ethereum" {
			want = domain.ProfileRelaxed
		}
		if s.Profile != want {
			t.Errorf("%s: expected %s profile, got %s", name, want, s.Profile)
		}
	}

	// Dynamic contracts are the two NSE futures
	for _, name := range []string{"Nifty Future", "Bank Nifty Future"} {
		s, ok := byName[name]
		if !ok {
			t.Fatalf("Missing %s", name)
		}
		if !s.DynamicContract || s.Category != domain.CategoryNSEFutures {
			t.Errorf("%s misconfigured: %+v", name, s)
		}
	}

	for _, s := range specs {
		if s.PipSize <= 0 {
			t.Errorf("%s: pip size must be positive", s.Name)
		}
		if s.Symbol == "" {
			t.Errorf("%s: symbol missing", s.Name)
		}
	}
}
