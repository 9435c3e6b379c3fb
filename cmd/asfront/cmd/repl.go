package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"asfront/pkg/driver"
	"asfront/pkg/errors"
	"asfront/pkg/parser"
	"asfront/pkg/source"
)

const (
	historyFile = ".asfront_history"
	promptMain  = "as> "
	promptCont  = "... "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse input interactively and print the syntax tree",
	Long: `Reads directives line by line and prints their syntax trees.
Input that ends in the middle of a construct continues on the next line.
Type :quit or press Ctrl+D to exit.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "asfront REPL. Ctrl+C cancels input, Ctrl+D exits.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, ok := readByParseProbe(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return nil
		}
		evalReplInput(out, drv, code)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe reads lines until they form a complete parse or fail
// before the end of input.
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if stderrors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !isIncomplete(drv.ParseSource(source.NewReplSource(src))) {
			return src, true
		}
	}
}

// isIncomplete reports whether r failed only because the input ended.
func isIncomplete(r *driver.Result) bool {
	if !r.Failed() {
		return false
	}
	for _, d := range r.Diagnostics {
		if !d.IsWarning() {
			return d.Location.FirstOffset >= len(r.Source.Content)
		}
	}
	return false
}

func evalReplInput(w io.Writer, d *driver.Driver, code string) {
	result := d.ParseSource(source.NewReplSource(code))
	if len(result.Diagnostics) > 0 {
		errors.DisplayDiagnostics(w, result.Diagnostics)
	}
	if result.Failed() {
		return
	}
	fmt.Fprint(w, parser.NewPrinter().Print(result.Program))
}
