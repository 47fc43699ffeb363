package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rohmanhakim/conditions/internal/build"
	"github.com/rohmanhakim/conditions/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile             string
	warningMode         string
	warningSummaryLimit int
	noCallSites         bool
	colorMode           string
	traceFile           string
	concurrency         int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "condrun",
	Short: "Run condition handling scenarios.",
	Long: `condrun executes scenario files against a condition signaling and
handling runtime. Every unit of a scenario runs as a top-level unit with its
own handler stack: errors abort the unit, warnings and messages are reported
on stderr, and the exit status says whether any unit failed.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = build.FullVersion()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (.json, .toml, .yaml)")
	rootCmd.PersistentFlags().StringVar(&warningMode, "warning-mode", "", "unhandled warning policy: deferred, immediate or escalate")
	rootCmd.PersistentFlags().IntVar(&warningSummaryLimit, "warning-summary-limit", 0, "deferred warnings listed one by one up to this many")
	rootCmd.PersistentFlags().BoolVar(&noCallSites, "no-call-sites", false, "do not record the signaling frame of conditions")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "", "colorize diagnostics: auto, always or never")
	rootCmd.PersistentFlags().StringVar(&traceFile, "trace-file", "", "write a logfmt trace of every signal to this file")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "number of units running at once")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// InitConfigWithError builds the config from the config file, if any, or
// the defaults, then applies the flags that were set.
func InitConfigWithError() (config.Config, error) {
	var configBuilder *config.Config
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		configBuilder = &cfg
	} else {
		configBuilder = config.WithDefault()
	}

	if warningMode != "" {
		mode, err := config.ParseWarningMode(warningMode)
		if err != nil {
			return config.Config{}, err
		}
		configBuilder = configBuilder.WithWarningMode(mode)
	}

	if warningSummaryLimit > 0 {
		configBuilder = configBuilder.WithWarningSummaryLimit(warningSummaryLimit)
	}

	if noCallSites {
		configBuilder = configBuilder.WithCaptureCallSites(false)
	}

	if colorMode != "" {
		configBuilder = configBuilder.WithColor(colorMode)
	}

	if traceFile != "" {
		configBuilder = configBuilder.WithTraceFile(traceFile)
	}

	if concurrency > 0 {
		configBuilder = configBuilder.WithConcurrency(concurrency)
	}

	return configBuilder.Build()
}

func ResetFlags() {
	cfgFile = ""
	warningMode = ""
	warningSummaryLimit = 0
	noCallSites = false
	colorMode = ""
	traceFile = ""
	concurrency = 0
	versionFormat = "pretty"
}

// ExecuteForTest runs the command line args against the root command,
// writing to stdout and stderr.
func ExecuteForTest(args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	return rootCmd.ExecuteContext(context.Background())
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetWarningModeForTest(mode string) {
	warningMode = mode
}

func SetWarningSummaryLimitForTest(limit int) {
	warningSummaryLimit = limit
}

func SetNoCallSitesForTest(disable bool) {
	noCallSites = disable
}

func SetColorForTest(mode string) {
	colorMode = mode
}

func SetTraceFileForTest(path string) {
	traceFile = path
}

func SetConcurrencyForTest(conc int) {
	concurrency = conc
}
