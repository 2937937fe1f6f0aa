package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[run]
gc_log = false
max_call_depth = 50

[log]
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Run.GCLog || cfg.Run.MaxCallDepth != 50 {
		t.Fatalf("run = %+v", cfg.Run)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "warn" || cfg.Output.Color != "auto" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "unknown key", body: "[run]\nspeed = 3\n", want: "unknown keys run.speed"},
		{name: "bad color", body: "[output]\ncolor = \"pink\"\n", want: "output.color"},
		{name: "bad level", body: "[log]\nlevel = \"loud\"\n", want: "log.level"},
		{name: "bad format", body: "[log]\nformat = \"xml\"\n", want: "log.format"},
		{name: "syntax", body: "[run\n", want: "config: parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadOptional(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadOptional("")
	if err != nil {
		t.Fatalf("LoadOptional error: %v", err)
	}
	if !cfg.Run.GCLog {
		t.Fatalf("missing default file did not yield defaults: %+v", cfg)
	}
	if _, err := LoadOptional(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("missing explicit file accepted")
	}

	dir := os.Getenv("XDG_CONFIG_HOME")
	if err := os.MkdirAll(filepath.Join(dir, "corelang"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(DefaultPath(), []byte("[output]\ncolor = \"never\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = LoadOptional("")
	if err != nil || cfg.Output.Color != "never" {
		t.Fatalf("LoadOptional = %+v, %v", cfg, err)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Logger(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at warn level: %q", buf.String())
	}
	cfg.Log.Format = "json"
	cfg.Logger(&buf, true).Debug("shown", "k", 1)
	if !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Fatalf("json debug record missing: %q", buf.String())
	}
}
