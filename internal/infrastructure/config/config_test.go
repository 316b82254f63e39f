package config_test

import (
	"path/filepath"
	"testing"

	"github.com/pantrykeeper/core/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Name != "PantryKeeper" {
		t.Fatalf("app name = %q", cfg.App.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Storage.FileName != "food-inventory.json" {
		t.Fatalf("file name = %q", cfg.Storage.FileName)
	}
}

func TestStoragePaths(t *testing.T) {
	sc := config.StorageConfig{DataDir: "/var/lib/pantry", FileName: "inventory.json"}

	if got := sc.PrimaryPath(); got != filepath.Join("/var/lib/pantry", "inventory.json") {
		t.Fatalf("primary = %q", got)
	}
	if got := sc.BackupPath(); got != filepath.Join("/var/lib/pantry", "inventory.backup.json") {
		t.Fatalf("backup = %q", got)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_FILE_NAME", "other.json")
	t.Setenv("SERVER_PORT", "9999")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.FileName != "other.json" {
		t.Fatalf("file name = %q", cfg.Storage.FileName)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("non-json file name", func(t *testing.T) {
		t.Setenv("STORAGE_FILE_NAME", "inventory.txt")
		if _, err := config.Load(); err == nil {
			t.Fatal("expected error for non-json file name")
		}
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "70000")
		if _, err := config.Load(); err == nil {
			t.Fatal("expected error for bad port")
		}
	})
}
