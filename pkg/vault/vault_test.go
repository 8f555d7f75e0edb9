package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVault_Paths(t *testing.T) {
	v := &Vault{
		ResultsPath: "/test/docup/results",
		ReportsPath: "/test/docup/reports",
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"manifest", v.ManifestPath(), "/test/docup/results/manifest.json"},
		{"result document", v.GetResultPath("abc123"), "/test/docup/results/abc123.json"},
		{"report", v.GetReportPath("session-1"), "/test/docup/reports/session-1.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestNew_UsesXDG(t *testing.T) {
	data := t.TempDir()
	cfg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("XDG_CONFIG_HOME", cfg)

	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if v.RootPath != filepath.Join(data, "docup") {
		t.Errorf("RootPath = %q", v.RootPath)
	}
	if v.ResultsPath != filepath.Join(data, "docup", "results") {
		t.Errorf("ResultsPath = %q", v.ResultsPath)
	}
	if v.ConfigPath != filepath.Join(cfg, "docup", "config.yaml") {
		t.Errorf("ConfigPath = %q", v.ConfigPath)
	}
}

func TestVault_InitializeAndClean(t *testing.T) {
	root := t.TempDir()
	v := &Vault{
		RootPath:    root,
		ResultsPath: filepath.Join(root, "results"),
		ReportsPath: filepath.Join(root, "reports"),
	}

	if !v.Exists() {
		t.Error("temp root should exist")
	}
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	for _, dir := range []string{v.ResultsPath, v.ReportsPath} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created", dir)
		}
	}

	if err := os.WriteFile(v.GetResultPath("x"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := v.CleanResults(); err != nil {
		t.Fatalf("CleanResults failed: %v", err)
	}
	entries, _ := os.ReadDir(v.ResultsPath)
	if len(entries) != 0 {
		t.Errorf("expected empty results dir, got %d entries", len(entries))
	}
}

func TestVault_UseResultsDir(t *testing.T) {
	v := &Vault{ResultsPath: "/default"}
	v.UseResultsDir("")
	if v.ResultsPath != "/default" {
		t.Error("empty dir should keep default")
	}
	v.UseResultsDir("/custom")
	if v.ResultsPath != "/custom" {
		t.Errorf("ResultsPath = %q", v.ResultsPath)
	}
}
