package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/rohmanhakim/conditions/internal/diag"
	"github.com/rohmanhakim/conditions/internal/driver"
	"github.com/rohmanhakim/conditions/internal/metadata"
	"github.com/rohmanhakim/conditions/internal/scenario"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run every unit of a scenario file",
	Long: `run loads a scenario file and runs its units. Ordinary output goes to
stdout, diagnostics to stderr, each unit's text in file order followed by a
one-line status per unit. Ctrl-C interrupts the running units.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}

		prog, err := scenario.Load(args[0])
		if err != nil {
			return err
		}

		mode, err := diag.ParseColorMode(cfg.Color())
		if err != nil {
			return err
		}
		sink := diag.NewWriterSink(cmd.ErrOrStderr(), mode)

		var trace metadata.TraceSink = metadata.NoopSink{}
		if cfg.TraceFile() != "" {
			f, err := os.Create(cfg.TraceFile())
			if err != nil {
				return fmt.Errorf("error opening trace file: %w", err)
			}
			defer f.Close()
			trace = metadata.NewRecorder(f)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		report := driver.NewRunner(cfg, out, sink, driver.WithTrace(trace)).Run(ctx, prog)
		printSummary(out, report, diag.UseColor(out, mode))
		return report.Err()
	},
}

func printSummary(w io.Writer, report driver.Report, colored bool) {
	ok := color.New(color.FgGreen)
	failed := color.New(color.FgRed, color.Bold)
	for _, c := range []*color.Color{ok, failed} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, u := range report.Units {
		status := ok.Sprint("ok    ")
		if u.Outcome.Failed {
			status = failed.Sprint("FAILED")
		}
		line := fmt.Sprintf("%s %s", status, u.Name)
		if !u.Outcome.Failed && u.Value != "" {
			line += fmt.Sprintf(" => %q", u.Value)
		}
		fmt.Fprintln(w, line)
	}
}
