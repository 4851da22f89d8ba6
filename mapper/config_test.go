package mapper

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.defaults()
	if cfg.Threshold != 0.5 {
		t.Errorf("threshold = %v", cfg.Threshold)
	}
	if cfg.Cache.Capacity != 20 || cfg.Cache.TTL != 90*time.Second {
		t.Errorf("cache config = %+v", cfg.Cache)
	}
	if cfg.Template.TTL != 24*time.Hour {
		t.Errorf("template ttl = %v", cfg.Template.TTL)
	}
	if len(cfg.GridTokens) == 0 {
		t.Error("grid tokens default missing")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domap.yaml")
	src := `
threshold: 0.4
max_images: 5
grid_tokens: [grid, tiles]
cache:
  capacity: 8
template:
  db_path: /tmp/tpl.db
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Threshold != 0.4 || cfg.MaxImages != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.Capacity != 8 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if len(cfg.GridTokens) != 2 || cfg.GridTokens[1] != "tiles" {
		t.Errorf("grid tokens = %v", cfg.GridTokens)
	}
	if cfg.Template.DBPath != "/tmp/tpl.db" {
		t.Errorf("template = %+v", cfg.Template)
	}
}
