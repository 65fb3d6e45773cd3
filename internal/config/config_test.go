package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harbor.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, `
[simulation]
tick_rate = "20ms"

[people]
max_visitors = 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Simulation.TickRate != 20*time.Millisecond {
		t.Fatalf("expected 20ms tick, got %s", cfg.Simulation.TickRate)
	}
	if cfg.People.MaxVisitors != 3 {
		t.Fatalf("expected max_visitors 3, got %d", cfg.People.MaxVisitors)
	}
	if cfg.People.Radius != 95 || cfg.Boats.UpgradeDuration != 25 {
		t.Fatalf("expected defaults to survive, got radius %v upgrade %v", cfg.People.Radius, cfg.Boats.UpgradeDuration)
	}
	if cfg.Simulation.StartTime == 0 {
		t.Fatal("expected start time to be stamped")
	}
}

func TestLoadRejectsInvertedRanges(t *testing.T) {
	path := writeConfig(t, `
[boats]
fishing_min = 6.0
fishing_max = 4.0
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected inverted fishing range to be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load("../../config/harbor.toml")
	if err != nil {
		t.Fatalf("load shipped config: %v", err)
	}
	if cfg.Director.Phase != "BOOM" || cfg.Database.Enabled {
		t.Fatalf("unexpected shipped settings: phase %q db %v", cfg.Director.Phase, cfg.Database.Enabled)
	}
	if cfg.Database.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("expected 30m lifetime, got %s", cfg.Database.ConnMaxLifetime)
	}
}
