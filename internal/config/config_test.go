package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gavioto/sysdb/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sysdb.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadParsesPluginsAndParams(t *testing.T) {
	path := writeConfig(t, `
listen_address: /var/run/sysdb.sock
plugin_base_dir: /usr/lib/sysdb/plugins
plugins:
  - name: backend::rrdtool
    interval: 30s
    params:
      datadir: /var/lib/sysdb/rrd
  - name: backend::csv
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddress != "/var/run/sysdb.sock" {
		t.Fatalf("ListenAddress = %q", cfg.ListenAddress)
	}
	if len(cfg.Plugins) != 2 {
		t.Fatalf("Plugins = %d, want 2", len(cfg.Plugins))
	}
	if cfg.Plugins[0].Params["datadir"] != "/var/lib/sysdb/rrd" {
		t.Fatalf("params.datadir = %q", cfg.Plugins[0].Params["datadir"])
	}
	if cfg.Plugins[1].Interval != "" {
		t.Fatalf("expected empty interval default, got %q", cfg.Plugins[1].Interval)
	}
}

func TestLoadRequiresListenAddress(t *testing.T) {
	path := writeConfig(t, `plugin_base_dir: /usr/lib/sysdb/plugins`)
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for missing listen_address")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
