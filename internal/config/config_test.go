package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Paths.OutputDir == "" {
		t.Error("expected OutputDir to be set")
	}

	if cfg.Merge.Width != 1080 || cfg.Merge.Height != 1920 {
		t.Errorf("expected 1080x1920 merge frame, got %dx%d", cfg.Merge.Width, cfg.Merge.Height)
	}

	// Check music loudness defaults
	if cfg.Music.TargetLoudness != -16.0 {
		t.Errorf("expected TargetLoudness to be -16.0, got %f", cfg.Music.TargetLoudness)
	}

	if cfg.Music.TruePeak != -1.5 {
		t.Errorf("expected TruePeak to be -1.5, got %f", cfg.Music.TruePeak)
	}

	if cfg.Encoding.Preset != "ultrafast" || cfg.Encoding.CRF != 23 {
		t.Errorf("unexpected encoding defaults: %+v", cfg.Encoding)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetConfigDir(t *testing.T) {
	dir := GetConfigDir()

	if dir == "" {
		t.Error("expected non-empty config directory")
	}

	if !strings.HasSuffix(dir, filepath.FromSlash(DefaultConfigDir)) {
		t.Errorf("expected config dir to end with %q, got %q", DefaultConfigDir, dir)
	}
}

func TestGetDefaultStateDirHonoursXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/tmp/state")
	if got := GetDefaultStateDir(); got != filepath.Join("/var/tmp/state", "kartoza-reel-renderer") {
		t.Errorf("GetDefaultStateDir = %q", got)
	}
}

func TestLoad_NoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, exists, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected exists to be false")
	}
	if cfg.Paths.OutputDir == "" {
		t.Error("expected OutputDir to be set to default")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `
[merge]
resize_mode = "Contain"
duration = 12.5

[captions]
word_color = "#FFD700"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Error("expected exists to be true")
	}
	if cfg.Merge.ResizeMode != "contain" {
		t.Errorf("resize mode = %q, want contain", cfg.Merge.ResizeMode)
	}
	if cfg.Merge.Duration != 12.5 {
		t.Errorf("duration = %v", cfg.Merge.Duration)
	}
	if cfg.Captions.WordColor != "#FFD700" {
		t.Errorf("word color = %q", cfg.Captions.WordColor)
	}
	// Untouched keys keep their defaults.
	if cfg.Captions.FontFamily != "Montserrat-Bold" || cfg.Merge.Width != 1080 {
		t.Errorf("defaults lost: %+v %+v", cfg.Captions, cfg.Merge)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"bad color":       "[captions]\nword_color = \"#GGGGGG\"\n",
		"bad resize mode": "[merge]\nresize_mode = \"stretch\"\n",
		"bad log format":  "[logging]\nformat = \"xml\"\n",
		"bad toml":        "[merge\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	cfg := DefaultConfig()
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Music.TargetLoudness = -18.0
	cfg.Render.MaxParallel = 4

	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Error("expected saved file to exist")
	}
	if loaded.Paths.OutputDir != cfg.Paths.OutputDir {
		t.Errorf("OutputDir = %s, want %s", loaded.Paths.OutputDir, cfg.Paths.OutputDir)
	}
	if loaded.Music.TargetLoudness != -18.0 {
		t.Errorf("TargetLoudness = %v", loaded.Music.TargetLoudness)
	}
	if loaded.Render.MaxParallel != 4 {
		t.Errorf("MaxParallel = %d", loaded.Render.MaxParallel)
	}
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Paths = Paths{
		OutputDir: filepath.Join(root, "out"),
		WorkDir:   filepath.Join(root, "work"),
		StateDir:  filepath.Join(root, "state"),
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.WorkDir, cfg.Paths.StateDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s: %v", dir, err)
		}
	}
	if cfg.HistoryPath() != filepath.Join(root, "state", "history.db") {
		t.Errorf("HistoryPath = %s", cfg.HistoryPath())
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/reels")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "reels") {
		t.Errorf("ExpandPath = %s", got)
	}
	if got, _ := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}
