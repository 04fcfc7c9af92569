package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShafaqShahid/LoadTestGMC/internal/history"
	"github.com/ShafaqShahid/LoadTestGMC/internal/metadata"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:          "history",
	Short:        "List recent merge runs from the history store.",
	SilenceUsage: true,
	RunE:         runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDir, "history-dir", "", "directory of the run-history store")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}
	if cfg.HistoryDir() == "" {
		return fmt.Errorf("--history-dir is required (or historyDir in the config file)")
	}
	metadata.SetLogLevel(cfg.LogLevel())

	recorder := metadata.NewRecorder("history")
	store, herr := history.Open(cfg.HistoryDir(), &recorder)
	if herr != nil {
		return fmt.Errorf("cannot open history store: %w", herr)
	}
	defer store.Close()

	entries, herr := store.Recent(historyLimit)
	if herr != nil {
		return fmt.Errorf("cannot read history: %w", herr)
	}
	if len(entries) == 0 {
		fmt.Println("No merge runs recorded yet")
		return nil
	}

	fmt.Printf("%-25s %-36s %10s %8s %10s %6s\n",
		"MERGED AT", "RUN ID", "REQUESTS", "ERRORS", "ERROR RATE", "FILES")
	for _, e := range entries {
		fmt.Printf("%-25s %-36s %10d %8d %10s %6d\n",
			e.MergeTimestamp, e.RunID, e.TotalRequests, e.TotalErrors, e.ErrorRate, e.ProcessedFiles)
	}
	return nil
}
