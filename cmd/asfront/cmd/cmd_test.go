package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"asfront/pkg/driver"
	"asfront/pkg/source"
)

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cfgFile, verbose = "asfront.toml", false
	parseAST, parseFormat, parseExpr = false, "", ""

	var out strings.Builder
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseCommandEval(t *testing.T) {
	out, err := executeCommand(t, "", "parse", "--ast", "-e", "a + b * c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<eval>") || !strings.Contains(out, "(binary + a (binary * b c))") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestParseCommandStdin(t *testing.T) {
	out, err := executeCommand(t, "var x = <a>{y}</a>;", "parse", "--ast")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<stdin>") || !strings.Contains(out, "(var (= x (xml-element a (expr y))))") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestParseCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "Good.as")
	bad := filepath.Join(dir, "Bad.as")
	if err := os.WriteFile(good, []byte("package { class Good {} }"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("var x = <a></b>;"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "", "parse", "--format", "json", dir)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 sources failed") {
		t.Fatalf("expected failure count error, got %v", err)
	}
	var report driver.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report.Errors != 1 || len(report.Files) != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	// WalkDir order: Bad.as before Good.as
	if d := report.Files[0].Diagnostics; len(d) != 1 || d[0].Kind != "MismatchedXmlClosingTag" {
		t.Fatalf("unexpected diagnostics: %+v", d)
	}
}

func TestParseCommandUsesConfigFormat(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "asfront.toml")
	if err := os.WriteFile(cfg, []byte("[report]\nformat = \"yaml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "", "--config", cfg, "parse", "-e", "f(1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var report driver.Report
	if err := yaml.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(report.Files) != 1 || report.Files[0].Directives != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestParseCommandBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "asfront.toml")
	if err := os.WriteFile(cfg, []byte("[report]\nformat = \"html\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(t, "", "--config", cfg, "parse", "-e", "x"); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestWatchRequiresDirectories(t *testing.T) {
	if _, err := executeCommand(t, "", "watch"); err == nil {
		t.Fatalf("expected argument error")
	}
}

func TestReplIncompleteInput(t *testing.T) {
	drv = driver.New(nil, nil)
	tests := []struct {
		input      string
		incomplete bool
	}{
		{"var x = 1;", false},
		{"function f() {", true},
		{"f(1,", true},
		{"var x = <a>", true},
		{"a b", true},
		{"a b;", false},
		{"var x = )", false},
	}

	for i, tt := range tests {
		result := drv.ParseSource(source.NewReplSource(tt.input))
		if got := isIncomplete(result); got != tt.incomplete {
			t.Fatalf("tests[%d] - %q: expected incomplete=%v, got %v (%v)", i, tt.input, tt.incomplete, got, result.Diagnostics)
		}
	}
}

func TestEvalReplInput(t *testing.T) {
	d := driver.New(nil, nil)

	var out strings.Builder
	evalReplInput(&out, d, "x = a?.b")
	if out.String() != "(assign = x (?. a (member <host> b)))\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	evalReplInput(&out, d, "1 = 2")
	if !strings.Contains(out.String(), "<repl>:1:1") {
		t.Fatalf("expected diagnostic, got %q", out.String())
	}
}
