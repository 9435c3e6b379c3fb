package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"asfront/pkg/driver"
	"asfront/pkg/source"
)

var (
	parseAST    bool
	parseFormat string
	parseExpr   string
)

var parseCmd = &cobra.Command{
	Use:   "parse [files|dirs...]",
	Short: "Parse sources and report diagnostics",
	Long: `Parses each file, or every source file below each directory, and
prints the diagnostics. Without arguments the source is read from stdin.

Examples:
  asfront parse src/
  asfront parse --ast Main.as
  asfront parse --format yaml src/ > report.yaml
  asfront parse -e "a.<int> >= b"`,
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseAST, "ast", false, "include the syntax tree")
	parseCmd.Flags().StringVar(&parseFormat, "format", "", "output format (text, yaml, json); defaults to [report] format")
	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse the given source text")
}

func runParse(cmd *cobra.Command, args []string) error {
	format := config.Report.Format
	if parseFormat != "" {
		format = parseFormat
	}

	results, err := collectResults(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == driver.FormatText {
		for _, r := range results {
			fmt.Fprintln(out, summaryLine(r))
		}
	}
	if err := driver.NewReport(results, parseAST).Write(out, format); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed to parse", failed, len(results))
	}
	return nil
}

func collectResults(cmd *cobra.Command, args []string) ([]*driver.Result, error) {
	if parseExpr != "" {
		return []*driver.Result{drv.ParseSource(source.NewEvalSource(parseExpr))}, nil
	}
	if len(args) == 0 {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []*driver.Result{drv.ParseSource(source.NewStdinSource(string(content)))}, nil
	}

	paths, err := drv.ExpandPaths(args)
	if err != nil {
		return nil, err
	}
	return drv.ParseFiles(cmd.Context(), paths)
}
