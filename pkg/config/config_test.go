//go:build !integration

package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_EMAIL_VERIFICATION_KEY", "0123456789abcdef")
	t.Setenv("DB_PASSWORD", "postgres")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Calculation.MinSubjects != 7 {
		t.Errorf("MinSubjects = %d, want 7", cfg.Calculation.MinSubjects)
	}
	if cfg.Calculation.RecommendationLimit != 10 {
		t.Errorf("RecommendationLimit = %d, want 10", cfg.Calculation.RecommendationLimit)
	}
	if cfg.Calculation.CatalogCacheTTL != 10*time.Minute {
		t.Errorf("CatalogCacheTTL = %v", cfg.Calculation.CatalogCacheTTL)
	}
	if cfg.Paystack.Currency != "KES" {
		t.Errorf("Currency = %q", cfg.Paystack.Currency)
	}
}

func TestLoadMissingSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing jwt secret")
	}
}

func TestLoadInvalidNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("MIN_SUBJECTS", "seven")

	if _, err := Load(); err == nil {
		t.Error("expected error for non numeric MIN_SUBJECTS")
	}
}
