package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShafaqShahid/LoadTestGMC/internal/config"
)

var (
	cfgFile       string
	logLevel      string
	concurrency   int
	errorSamples  int
	progressEvery int64
	historyDir    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "loadmerge",
	Short: "Merge load-test telemetry files into one summary.",
	Long: `loadmerge consolidates newline-delimited JSON telemetry files produced
by a load-generation run into a single statistical summary: request and
error counts, latency percentiles, error taxonomy, and check pass rates.

Merging streams every input with constant memory, tolerates malformed
lines and multiple event schemas, and never fails on partial input
coverage; only an unwritable output makes the run fail.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level: debug, info, warn, error")
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// InitConfigWithError builds the effective config: file first when given,
// then CLI flag overrides. Returning errors makes CLI misuse testable.
func InitConfigWithError() (config.Config, error) {
	var builder *config.ConfigBuilder
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
		builder = rebuild(cfg)
	} else {
		builder = config.WithDefault()
	}

	if concurrency > 0 {
		builder = builder.WithConcurrency(concurrency)
	}
	if errorSamples > 0 {
		builder = builder.WithErrorSampleCap(errorSamples)
	}
	if progressEvery > 0 {
		builder = builder.WithProgressEvery(progressEvery)
	}
	if historyDir != "" {
		builder = builder.WithHistoryDir(historyDir)
	}
	if logLevel != "" {
		builder = builder.WithLogLevel(logLevel)
	}

	return builder.Build()
}

// rebuild seeds a builder from an already-built config so flags can layer
// on top of file values.
func rebuild(cfg config.Config) *config.ConfigBuilder {
	return config.WithDefault().
		WithConcurrency(cfg.Concurrency()).
		WithErrorSampleCap(cfg.ErrorSampleCap()).
		WithURLTruncateLen(cfg.URLTruncateLen()).
		WithMaxLineBytes(cfg.MaxLineBytes()).
		WithProgressEvery(cfg.ProgressEvery()).
		WithLogLevel(cfg.LogLevel()).
		WithHistoryDir(cfg.HistoryDir())
}

func ResetFlags() {
	cfgFile = ""
	logLevel = ""
	concurrency = 0
	errorSamples = 0
	progressEvery = 0
	historyDir = ""
}

// Test seams: flag variables are package-private, so tests set them here
// instead of going through cobra's flag parsing.

func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetLogLevelForTest(level string) {
	logLevel = level
}

func SetConcurrencyForTest(conc int) {
	concurrency = conc
}

func SetErrorSamplesForTest(n int) {
	errorSamples = n
}

func SetProgressEveryForTest(n int64) {
	progressEvery = n
}

func SetHistoryDirForTest(dir string) {
	historyDir = dir
}
