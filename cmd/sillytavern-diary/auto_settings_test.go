package main

import (
	"testing"

	"github.com/spf13/viper"
)

func TestAutoSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	viper.Set("state_dir", dir)
	t.Cleanup(func() { viper.Set("state_dir", "") })

	s, err := loadAutoSettings()
	if err != nil {
		t.Fatalf("loadAutoSettings() on empty state error = %v", err)
	}
	if s.Enabled || s.Interval != 0 {
		t.Fatalf("loadAutoSettings() on empty state = %+v, want zero", s)
	}

	if err := saveAutoSettings(autoSettings{Enabled: true, Interval: 7}); err != nil {
		t.Fatalf("saveAutoSettings() error = %v", err)
	}
	s, err = loadAutoSettings()
	if err != nil {
		t.Fatalf("loadAutoSettings() error = %v", err)
	}
	if !s.Enabled || s.Interval != 7 {
		t.Fatalf("loadAutoSettings() = %+v, want enabled with interval 7", s)
	}
}

func TestEffectiveInterval(t *testing.T) {
	t.Parallel()

	if got := (autoSettings{Enabled: false, Interval: 9}).effectiveInterval(); got != 0 {
		t.Fatalf("effectiveInterval() disabled = %d, want 0", got)
	}
	if got := (autoSettings{Enabled: true, Interval: 9}).effectiveInterval(); got != 9 {
		t.Fatalf("effectiveInterval() enabled = %d, want 9", got)
	}
}
