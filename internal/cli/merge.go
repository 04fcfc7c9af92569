package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShafaqShahid/LoadTestGMC/internal/config"
	"github.com/ShafaqShahid/LoadTestGMC/internal/history"
	"github.com/ShafaqShahid/LoadTestGMC/internal/merge"
	"github.com/ShafaqShahid/LoadTestGMC/internal/metadata"
	"github.com/ShafaqShahid/LoadTestGMC/internal/summary"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <output-file> <input-file>...",
	Short: "Merge telemetry files into one summary document.",
	Long: `merge streams every input file through the parse pipeline, folds the
per-file aggregates, and writes the consolidated summary JSON.

Missing or unreadable inputs are skipped with a warning and the run still
succeeds; the only fatal condition is an output that cannot be written.`,
	Args:         cobra.MinimumNArgs(2),
	SilenceUsage: true,
	RunE:         runMerge,
}

func init() {
	mergeCmd.Flags().IntVar(&concurrency, "concurrency", 0, "per-file worker goroutines (default 1)")
	mergeCmd.Flags().IntVar(&errorSamples, "error-samples", 0, "retained error sample capacity (default 20)")
	mergeCmd.Flags().Int64Var(&progressEvery, "progress-every", 0, "emit a progress record every N lines")
	mergeCmd.Flags().StringVar(&historyDir, "history-dir", "", "directory of the run-history store (empty disables)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}
	metadata.SetLogLevel(cfg.LogLevel())

	outputPath := args[0]
	inputs := args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder := metadata.NewRecorder("merge-coordinator")
	coordinator := merge.NewCoordinatorWithDeps(cfg, &recorder, &recorder)
	execution := coordinator.Merge(ctx, inputs)

	sink := summary.NewLocalSink(&recorder)
	writeResult, werr := sink.Write(outputPath, execution.Document())
	if werr != nil {
		// the only non-zero exit path
		return fmt.Errorf("cannot write summary: %w", werr)
	}

	appendHistory(cfg, &recorder, execution.Document())

	doc := execution.Document()
	fmt.Printf("Merged %d/%d files into %s (%d bytes)\n",
		execution.ProcessedFiles(), doc.Metadata.TotalFiles, writeResult.Path(), writeResult.Bytes())
	fmt.Printf("Requests: %d  Errors: %d (%s)\n",
		doc.Summary.TotalRequests, doc.Summary.TotalErrors, doc.Summary.ErrorRate)
	if len(execution.SkippedFiles()) > 0 {
		fmt.Printf("Skipped unreadable: %v\n", execution.SkippedFiles())
	}
	if len(execution.DuplicateFiles()) > 0 {
		fmt.Printf("Skipped duplicates: %v\n", execution.DuplicateFiles())
	}
	if execution.Cancelled() {
		fmt.Println("Cancelled: summary covers partial input")
	}
	return nil
}

// appendHistory stores the run when history is enabled. Best effort only;
// errors are recorded and swallowed so they never affect the exit code.
func appendHistory(cfg config.Config, recorder *metadata.Recorder, doc summary.Document) {
	if cfg.HistoryDir() == "" {
		return
	}
	store, err := history.Open(cfg.HistoryDir(), recorder)
	if err != nil {
		recorder.RecordError(
			time.Now(),
			"history",
			"history.Open",
			metadata.CauseStorageFailure,
			err.Error(),
			nil,
		)
		return
	}
	defer store.Close()
	store.Put(doc)
}
