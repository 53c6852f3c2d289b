package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/yuanying/brandeck/internal/pptx"
)

func subCmd(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	cmd, _, err := root.Find([]string{name})
	if err != nil {
		t.Fatalf("Find(%q) error = %v", name, err)
	}
	return cmd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var stderr bytes.Buffer
	root.SetOut(&stderr)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stderr.String(), err
}

func TestReadGlobalOptions_Defaults(t *testing.T) {
	cmd := subCmd(t, newRootCmd(), "init-template")
	opts, err := readGlobalOptions(cmd)
	if err != nil {
		t.Fatalf("readGlobalOptions() error = %v", err)
	}
	if !opts.Logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("Logger should be enabled at INFO level by default")
	}
	if opts.Logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("Logger should not be enabled at DEBUG level by default")
	}
}

func TestReadGlobalOptions_Verbose(t *testing.T) {
	cmd := subCmd(t, newRootCmd(), "init-template")
	if err := cmd.ParseFlags([]string{"--log-level", "warn", "--verbose"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	opts, err := readGlobalOptions(cmd)
	if err != nil {
		t.Fatalf("readGlobalOptions() error = %v", err)
	}
	// --verbose overrides log-level to debug
	if !opts.Logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("Logger should be enabled at DEBUG level when --verbose is set")
	}
}

func TestReadGlobalOptions_Invalid(t *testing.T) {
	tests := []struct {
		args []string
		flag string
	}{
		{[]string{"--log-level", "trace"}, "--log-level"},
		{[]string{"--log-level", "fatal"}, "--log-level"},
		{[]string{"--log-format", "yaml"}, "--log-format"},
	}
	for _, tt := range tests {
		cmd := subCmd(t, newRootCmd(), "init-template")
		if err := cmd.ParseFlags(tt.args); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}
		_, err := readGlobalOptions(cmd)
		if err == nil || !strings.Contains(err.Error(), tt.flag) {
			t.Fatalf("args %v: expected %s validation error, got %v", tt.args, tt.flag, err)
		}
	}
}

func TestBuildLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&buf, "info", "JSON")
	logger.Info("test message")
	output := buf.String()
	if len(output) == 0 || output[0] != '{' {
		t.Fatalf("expected JSON output for format 'JSON', got: %s", output)
	}
}

func TestBuildLogger_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&buf, "loud", "console")
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestDefaultOutputPath(t *testing.T) {
	got := defaultOutputPath("./reports/q1.html")
	if got != "./reports/q1.pptx" {
		t.Fatalf("defaultOutputPath() = %q", got)
	}
}

func TestPick(t *testing.T) {
	if got := pick(true, "flag", "file"); got != "flag" {
		t.Fatalf("explicit flag: got %q", got)
	}
	if got := pick(false, "env", "file"); got != "file" {
		t.Fatalf("deck file over default: got %q", got)
	}
	if got := pick(false, "env", ""); got != "env" {
		t.Fatalf("default when file is empty: got %q", got)
	}
}

func TestReadBuildOptions_Precedence(t *testing.T) {
	dir := t.TempDir()
	deckPath := filepath.Join(dir, "deck.yaml")
	writeFile(t, deckPath, "template: brand.pptx\nfooter: From file\nslides:\n  - type: logo\n")

	t.Setenv(envTemplate, "/env/template.pptx")
	t.Setenv(envFooter, "From env")

	cmd := subCmd(t, newRootCmd(), "build")
	opts, err := readBuildOptions(cmd, []string{deckPath})
	if err != nil {
		t.Fatalf("readBuildOptions() error = %v", err)
	}
	d, err := loadDeck(opts)
	if err != nil {
		t.Fatalf("loadDeck() error = %v", err)
	}
	if d.Template != filepath.Join(dir, "brand.pptx") || d.Footer != "From file" {
		t.Fatalf("deck file should win over env defaults: %q, %q", d.Template, d.Footer)
	}

	cmd = subCmd(t, newRootCmd(), "build")
	if err := cmd.ParseFlags([]string{"-t", "other.pptx", "--footer", "From flag", "-o", "x.pptx"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	opts, err = readBuildOptions(cmd, []string{deckPath})
	if err != nil {
		t.Fatalf("readBuildOptions() error = %v", err)
	}
	d, err = loadDeck(opts)
	if err != nil {
		t.Fatalf("loadDeck() error = %v", err)
	}
	if d.Template != "other.pptx" || d.Footer != "From flag" || d.Output != "x.pptx" {
		t.Fatalf("flags should win: %q, %q, %q", d.Template, d.Footer, d.Output)
	}
}

func TestReadBuildOptions_EnvDefault(t *testing.T) {
	dir := t.TempDir()
	deckPath := filepath.Join(dir, "deck.yaml")
	writeFile(t, deckPath, "slides:\n  - type: logo\n")

	t.Setenv(envTemplate, "/env/template.pptx")
	t.Setenv(envFooter, "From env")
	opts, err := readBuildOptions(subCmd(t, newRootCmd(), "build"), []string{deckPath})
	if err != nil {
		t.Fatalf("readBuildOptions() error = %v", err)
	}
	d, err := loadDeck(opts)
	if err != nil {
		t.Fatalf("loadDeck() error = %v", err)
	}
	if d.Template != "/env/template.pptx" || d.Footer != "From env" {
		t.Fatalf("env defaults not applied: %q, %q", d.Template, d.Footer)
	}
}

func TestReadBuildOptions_Invalid(t *testing.T) {
	dir := t.TempDir()
	deckPath := filepath.Join(dir, "deck.yaml")
	writeFile(t, deckPath, "slides:\n  - type: logo\n")
	t.Setenv(envTemplate, "")

	_, err := readBuildOptions(subCmd(t, newRootCmd(), "build"), []string{deckPath})
	if !errors.Is(err, errTemplateRequired) {
		t.Fatalf("expected template error, got %v", err)
	}

	cmd := subCmd(t, newRootCmd(), "build")
	if err := cmd.ParseFlags([]string{"-t", "x.pptx", "--max-image-width=-1"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	_, err = readBuildOptions(cmd, []string{deckPath})
	if err == nil || !strings.Contains(err.Error(), "--max-image-width") {
		t.Fatalf("expected max-image-width validation error, got %v", err)
	}
}

func TestReadImportOptions_Defaults(t *testing.T) {
	cmd := subCmd(t, newRootCmd(), "import")
	if err := cmd.ParseFlags([]string{"-t", "brand.pptx", "--footer", "F"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	opts, err := readImportOptions(cmd, []string{"./reports/q1.html"})
	if err != nil {
		t.Fatalf("readImportOptions() error = %v", err)
	}
	if opts.Output != "./reports/q1.pptx" {
		t.Fatalf("Output = %q", opts.Output)
	}
	if opts.AssetDir != "./reports/q1_assets" {
		t.Fatalf("AssetDir = %q", opts.AssetDir)
	}
	if !opts.Logo {
		t.Fatal("Logo = false, want true")
	}
}

func TestInitTemplateBuildAndImport(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "brand.pptx")

	if out, err := execute(t, "init-template", tmpl, "--logo-text", "ACME"); err != nil {
		t.Fatalf("init-template error = %v\n%s", err, out)
	}
	if _, err := execute(t, "init-template", tmpl); err == nil {
		t.Fatal("init-template should refuse to overwrite without --force")
	}

	deckPath := filepath.Join(dir, "q1.yaml")
	writeFile(t, deckPath, `template: brand.pptx
footer: ACME | Confidential
slides:
  - type: title
    title: Report
  - title: Findings
    body: Revenue grew
  - type: logo
`)
	if out, err := execute(t, "build", deckPath, "--log-format", "json"); err != nil {
		t.Fatalf("build error = %v\n%s", err, out)
	}
	doc, err := pptx.Open(filepath.Join(dir, "q1.pptx"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if n := len(doc.Slides()); n != 3 {
		t.Fatalf("built deck has %d slides, want 3", n)
	}

	report := filepath.Join(dir, "report.html")
	writeFile(t, report, "<h1>Report</h1><p>Q1</p><h2>Findings</h2><ul><li>One</li><li>Two</li></ul>")
	out := filepath.Join(dir, "imported.pptx")
	if log, err := execute(t, "import", report, "-t", tmpl, "--footer", "F", "-o", out); err != nil {
		t.Fatalf("import error = %v\n%s", err, log)
	}
	doc, err = pptx.Open(out)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if n := len(doc.Slides()); n != 3 {
		t.Fatalf("imported deck has %d slides, want 3", n)
	}
}

func TestBuildFailsOnMissingImage(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "brand.pptx")
	if _, err := execute(t, "init-template", tmpl); err != nil {
		t.Fatalf("init-template error = %v", err)
	}
	deckPath := filepath.Join(dir, "bad.yaml")
	writeFile(t, deckPath, "template: brand.pptx\nfooter: F\nslides:\n  - type: image\n    image: missing.png\n")

	if _, err := execute(t, "build", deckPath); err == nil {
		t.Fatal("build should fail for a missing image")
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.pptx")); !os.IsNotExist(err) {
		t.Fatalf("no output expected, stat error = %v", err)
	}
}
