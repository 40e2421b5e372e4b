package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[render]
indent = "\t"
verbatim = ["print", "len"]
verbatim_builtins = true

[document]
title = "Graphs"
source_column = false

[tool]
min_version = ">= 0.1.0"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Indent != "\t" || len(cfg.Render.Verbatim) != 2 || !cfg.Render.VerbatimBuiltins {
		t.Errorf("render = %+v", cfg.Render)
	}
	if Default().Render.VerbatimBuiltins {
		t.Errorf("builtins preset enabled by default")
	}
	if cfg.Render.MaxDepth != Default().Render.MaxDepth || !cfg.Render.EscapeStrings {
		t.Errorf("defaults lost: %+v", cfg.Render)
	}
	doc := cfg.DocumentOptions()
	if doc.Title != "Graphs" || doc.SourceColumn || doc.PackageOptions == "" {
		t.Errorf("document = %+v", doc)
	}
	if cfg.Path != path {
		t.Errorf("path = %q", cfg.Path)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[render]\nindnet = \"  \"\n"},
		{"empty indent", "[render]\nindent = \"\"\n"},
		{"bad depth", "[render]\nmax_depth = 0\n"},
		{"blank verbatim", "[render]\nverbatim = [\" \"]\n"},
		{"bad constraint", "[tool]\nmin_version = \"not a version\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.content))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	if _, err := Load(writeConfig(t, t.TempDir(), "[render\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[document]\nauthor = \"me\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Document.Author != "me" {
		t.Errorf("config not discovered upward: %+v", cfg)
	}
	if got, ok, _ := FindProjectRoot(nested); !ok || got != root {
		t.Errorf("root = %q, %v", got, ok)
	}
}

func TestDiscoverDefault(t *testing.T) {
	// TempDir lives outside any project, unless the machine has a stray algotex.toml in /tmp.
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path == "" && cfg.Render.Indent != "   " {
		t.Errorf("default indent = %q", cfg.Render.Indent)
	}
}

func TestCheckVersion(t *testing.T) {
	cfg := Default()
	cfg.Tool.MinVersion = ">= 0.2.0"

	if err := cfg.CheckVersion("0.3.1"); err != nil {
		t.Errorf("0.3.1: %v", err)
	}
	if err := cfg.CheckVersion("0.1.9"); !errors.Is(err, ErrVersionMismatch) {
		t.Errorf("0.1.9: %v", err)
	}
	if err := cfg.CheckVersion("dev"); err != nil {
		t.Errorf("dev build rejected: %v", err)
	}
	if err := Default().CheckVersion("0.0.1"); err != nil {
		t.Errorf("no constraint: %v", err)
	}
}
