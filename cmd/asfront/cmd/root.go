package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"asfront/pkg/driver"
)

var (
	cfgFile string
	verbose bool

	// set by the root PersistentPreRunE
	config *driver.Config
	drv    *driver.Driver
)

var rootCmd = &cobra.Command{
	Use:   "asfront",
	Short: "Parser front end for ActionScript-family sources",
	Long: `asfront parses ActionScript 3 and related ECMAScript dialects,
including E4X XML literals, generics and ASDoc comments.

Commands:
  parse   - parse files and report diagnostics
  repl    - parse input interactively
  watch   - re-parse files as they change`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the command tree.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "asfront.toml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

func setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := driver.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "path", cfgFile, "jobs", cfg.Driver.Jobs, "format", cfg.Report.Format)

	config = cfg
	drv = driver.New(cfg, logger)
	return nil
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
}
