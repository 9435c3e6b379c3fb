package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"asfront/pkg/driver"
	"asfront/pkg/errors"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-parse source files whenever they change",
	Long: `Watches the given directories, recursively, and re-parses every
source file that is created or written. Stop with Ctrl+C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("watching %d directories", len(args))))
	return drv.Watch(ctx, args, func(r *driver.Result) {
		fmt.Fprintln(out, summaryLine(r))
		errors.DisplayDiagnostics(out, r.Diagnostics)
	})
}
