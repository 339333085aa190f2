package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"call-auditor-go/internal/report"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <report.xlsx>...",
	Short: "Summarize exported audit reports",
	Long:  "Reads reports written by `audit process --export` and prints pass rate, average scores per rubric item and a suggested coaching action.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cards := make([]report.Scorecard, 0, len(args))
	for _, path := range args {
		sc, err := report.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		cards = append(cards, sc)
	}
	out, err := json.MarshalIndent(report.Aggregate(cards), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
