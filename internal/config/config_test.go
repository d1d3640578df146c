package config

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestParse_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Parse()
	if !errors.Is(err, ErrMissingDatabaseURL) {
		t.Errorf("Parse() error = %v, want ErrMissingDatabaseURL", err)
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/music")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.CatalogBaseURL != "https://api.deezer.com" {
		t.Errorf("CatalogBaseURL = %q", cfg.CatalogBaseURL)
	}
	if cfg.UserCount != 100 || cfg.StreamCount != 100_000 {
		t.Errorf("counts = (%d, %d), want (100, 100000)", cfg.UserCount, cfg.StreamCount)
	}
	if cfg.BatchSize != 5_000 {
		t.Errorf("BatchSize = %d, want 5000", cfg.BatchSize)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want 10s", cfg.HTTPTimeout)
	}
	if !slices.Equal(cfg.Countries, []string{"FR", "GB", "DE", "BR"}) {
		t.Errorf("Countries = %v", cfg.Countries)
	}
	if len(cfg.StreamContexts) != 6 {
		t.Errorf("StreamContexts = %v, want 6 entries", cfg.StreamContexts)
	}
	if !slices.Equal(cfg.Artists, []string{"Metronomy", "joy_division"}) {
		t.Errorf("Artists = %v", cfg.Artists)
	}
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/music")
	t.Setenv("ARTISTS", " Daft Punk , Air ,")
	t.Setenv("USER_COUNT", "250")
	t.Setenv("HTTP_TIMEOUT_MS", "2500")
	t.Setenv("COUNTRIES", "JP,KR")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !slices.Equal(cfg.Artists, []string{"Daft Punk", "Air"}) {
		t.Errorf("Artists = %v, want trimmed CSV", cfg.Artists)
	}
	if cfg.UserCount != 250 {
		t.Errorf("UserCount = %d, want 250", cfg.UserCount)
	}
	if cfg.HTTPTimeout != 2500*time.Millisecond {
		t.Errorf("HTTPTimeout = %v, want 2.5s", cfg.HTTPTimeout)
	}
	if !slices.Equal(cfg.Countries, []string{"JP", "KR"}) {
		t.Errorf("Countries = %v, want [JP KR]", cfg.Countries)
	}
}

func TestParse_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/music")
	t.Setenv("USER_COUNT", "lots")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.UserCount != 100 {
		t.Errorf("UserCount = %d, want default 100", cfg.UserCount)
	}
}
