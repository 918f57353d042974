package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/toonc/internal/adapters/driving/styles"
	"github.com/custodia-labs/toonc/internal/core/domain"
)

var (
	historyLimit  int
	historySource string
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent compiles",
	Long: `Show compile history, newest first. Use --source to list the compiles
of one source file.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of records")
	historyCmd.Flags().StringVar(&historySource, "source", "", "only show records for this source file")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errNotConfigured("history")
	}

	var (
		records []domain.BuildRecord
		err     error
	)
	if historySource != "" {
		records, err = historyService.ForSource(cmd.Context(), historySource)
	} else {
		records, err = historyService.Recent(cmd.Context(), historyLimit)
	}
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	if historyJSON {
		if records == nil {
			records = []domain.BuildRecord{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No compiles recorded.")
		return nil
	}

	s := styles.For(cmd.OutOrStdout())
	for i := range records {
		r := &records[i]
		score := s.Muted.Render("not validated")
		if r.Score != nil {
			score = fmt.Sprintf("%.1f", *r.Score)
			if r.Passed {
				score = s.Success.Render(score)
			} else {
				score = s.Error.Render(score)
			}
		}
		cmd.Printf("%s  %s -> %s  %s\n",
			s.Muted.Render(r.CreatedAt.Local().Format(time.DateTime)), r.SourcePath, r.OutputPath, score)
	}
	return nil
}
