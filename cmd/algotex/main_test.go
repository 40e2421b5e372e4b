package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err = root.Execute()
	runTraceCleanup()
	return out.String(), errOut.String(), err
}

func writeTestFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// testConfig isolates a test from any algotex.toml and from the user cache.
func testConfig(t *testing.T, content string) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return writeTestFile(t, filepath.Join(t.TempDir(), "algotex.toml"), content)
}

func TestUIModeFlag(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		var m uiMode
		if err := m.Set(in); err != nil || m != want {
			t.Errorf("Set(%q) = %q, %v", in, m, err)
		}
	}
	var m uiMode
	if err := m.Set("sometimes"); err == nil {
		t.Errorf("expected error for invalid mode")
	}
	if uiModeOff.wantsTUI(os.Stdout) || !uiModeOn.wantsTUI(new(bytes.Buffer)) {
		t.Errorf("explicit modes ignored")
	}
	if uiModeAuto.wantsTUI(new(bytes.Buffer)) {
		t.Errorf("auto mode picked the TUI for a buffer")
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addUIFlag(flags)
	if err := flags.Parse([]string{"--ui=off"}); err != nil {
		t.Fatal(err)
	}
	if got := uiModeFlag(flags); got != uiModeOff {
		t.Errorf("uiModeFlag = %q", got)
	}
	if err := flags.Parse([]string{"--ui=maybe"}); err == nil {
		t.Errorf("invalid --ui accepted by the parser")
	}
}

func TestOutputPlan(t *testing.T) {
	src := filepath.Join("proj", "algos")
	tests := []struct {
		plan outputPlan
		file string
		want string
	}{
		{outputPlan{srcRoot: src}, filepath.Join(src, "sort.py"), filepath.Join(src, "sort.tex")},
		{outputPlan{srcRoot: src, outDir: "out"}, filepath.Join(src, "graph", "bfs.py"), filepath.Join("out", "graph", "bfs.tex")},
		{outputPlan{single: "result.tex"}, "anything.py", "result.tex"},
	}
	for _, tt := range tests {
		if got := tt.plan.pathFor(tt.file); got != tt.want {
			t.Errorf("pathFor(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestRenderStdin(t *testing.T) {
	cfg := testConfig(t, "")
	out, _, err := execute(t, "x = 1\n", "--config", cfg, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `$x \gets 1 $`) {
		t.Errorf("stdout = %q", out)
	}
}

func TestRenderFileToOutput(t *testing.T) {
	cfg := testConfig(t, "[render]\nverbatim = [\"print\"]\n")
	dir := t.TempDir()
	src := writeTestFile(t, filepath.Join(dir, "walk.py"), "def walk(g):\n    print(g)\n")
	dest := filepath.Join(dir, "out", "walk.tex")

	if _, _, err := execute(t, "", "--config", cfg, "render", "--no-cache", "-o", dest, src); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`\SetKwFunction{Walk}{Walk}`, `\SetKwFunction{print}{print}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("output missing %q:\n%s", want, data)
		}
	}
}

func TestVerbatimBuiltins(t *testing.T) {
	src := "for i in range(n):\n    pass\n"
	cfg := testConfig(t, "[render]\nverbatim_builtins = true\n")
	out, _, err := execute(t, src, "--config", cfg, "render", "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `\SetKwFunction{range}{range}`) {
		t.Errorf("config preset not applied:\n%s", out)
	}

	out, _, err = execute(t, src, "--config", cfg, "render", "--no-cache", "--verbatim-builtins=false")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `\SetKwFunction{Range}{Range}`) {
		t.Errorf("flag did not override config:\n%s", out)
	}

	file := writeTestFile(t, filepath.Join(t.TempDir(), "r.py"), src)
	out, _, err = execute(t, "", "--config", testConfig(t, ""), "names", "--verbatim-builtins", file)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if out != "range\n" {
		t.Errorf("names = %q", out)
	}
}

func TestRenderDocumentFlags(t *testing.T) {
	cfg := testConfig(t, "[document]\ntitle = \"From config\"\n")
	out, _, err := execute(t, "x = 1\n", "--config", cfg, "render", "--document", "--author", "Ada")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"From config", "Ada", `\begin{algorithm}`} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRenderDirectory(t *testing.T) {
	cfg := testConfig(t, "")
	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "a.py"), "x = 1\n")
	writeTestFile(t, filepath.Join(src, "pkg", "b.py"), "y = 2\n")
	outDir := t.TempDir()

	_, stderr, err := execute(t, "", "--config", cfg, "render", "--ui=off", "-o", outDir, src)
	if err != nil {
		t.Fatalf("render: %v\n%s", err, stderr)
	}
	for _, rel := range []string{"a.tex", filepath.Join("pkg", "b.tex")} {
		if _, err := os.Stat(filepath.Join(outDir, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if !strings.Contains(stderr, "rendered 2 of 2 files (0 cached)") {
		t.Errorf("summary = %q", stderr)
	}

	_, stderr, err = execute(t, "", "--config", cfg, "render", "--ui=off", "-o", outDir, src)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !strings.Contains(stderr, "(2 cached)") {
		t.Errorf("second run summary = %q", stderr)
	}
}

func TestRenderFailure(t *testing.T) {
	cfg := testConfig(t, "")
	src := writeTestFile(t, filepath.Join(t.TempDir(), "c.py"), "class A:\n    pass\n")
	out, stderr, err := execute(t, "", "--config", cfg, "--color=off", "render", "--no-cache", src)
	if err == nil {
		t.Fatal("expected error")
	}
	if out != "" {
		t.Errorf("failed render wrote output: %q", out)
	}
	if !strings.Contains(stderr, "RND") {
		t.Errorf("stderr lacks render diagnostic: %q", stderr)
	}
}

func TestNamesCommand(t *testing.T) {
	cfg := testConfig(t, "")
	src := writeTestFile(t, filepath.Join(t.TempDir(), "n.py"), "def walk(g):\n    visit(g)\n    print(g)\n")

	out, _, err := execute(t, "", "--config", cfg, "names", "--verbatim", "print", src)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if out != "Walk\nVisit\nprint\n" {
		t.Errorf("names = %q", out)
	}

	out, _, err = execute(t, "", "--config", cfg, "names", "--format", "json", src)
	if err != nil {
		t.Fatalf("names json: %v", err)
	}
	var names []string
	if err := json.Unmarshal([]byte(out), &names); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(names, ",") != "Walk,Visit,Print" {
		t.Errorf("json names = %v", names)
	}
}

func TestParseAndTokenize(t *testing.T) {
	src := writeTestFile(t, filepath.Join(t.TempDir(), "p.py"), "x = 1\n")
	for _, args := range [][]string{
		{"parse", src},
		{"parse", "--format", "tree", src},
		{"tokenize", src},
	} {
		out, _, err := execute(t, "", args...)
		if err != nil {
			t.Errorf("%v: %v", args, err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("%v: empty output", args)
		}
	}

	out, _, err := execute(t, "", "parse", "--format", "json", src)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Errorf("parse json output is not JSON: %q", out)
	}

	bad := writeTestFile(t, filepath.Join(t.TempDir(), "bad.py"), "x = (\n")
	if _, _, err := execute(t, "", "--color=off", "parse", bad); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "algotex" || payload.Version == "" {
		t.Errorf("payload = %+v", payload)
	}
	if _, _, err := execute(t, "", "version", "--format", "xml"); err == nil {
		t.Errorf("expected error for unknown format")
	}
}

func TestVersionGate(t *testing.T) {
	cfg := testConfig(t, "[tool]\nmin_version = \">= 99.0.0\"\n")
	_, _, err := execute(t, "x = 1\n", "--config", cfg, "render")
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("err = %v, want version mismatch", err)
	}
}

func TestDiagnosticFormats(t *testing.T) {
	cfg := testConfig(t, "")
	src := writeTestFile(t, filepath.Join(t.TempDir(), "bad.py"), "x = (\n")

	_, stderr, err := execute(t, "", "--config", cfg, "--diag-format", "short", "render", "--no-cache", src)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(stderr, "error ") || !strings.Contains(stderr, "bad.py:") {
		t.Errorf("short diagnostics = %q", stderr)
	}

	_, stderr, err = execute(t, "", "--config", cfg, "--diag-format", "json", "render", "--no-cache", src)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(stderr, `"diagnostics": [`) {
		t.Errorf("json diagnostics = %q", stderr)
	}
}
