package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"call-auditor-go/internal/app"
	"call-auditor-go/internal/config"
	"call-auditor-go/internal/logger"
	"call-auditor-go/internal/report"
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Run the full audit pipeline on one file",
	Long:  "Detects the file type, extracts a transcript with the configured fallback chain, analyzes it and prints the audit result as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

var (
	processOutputFile string
	processExportFile string
)

func init() {
	processCmd.Flags().StringVarP(&processOutputFile, "out", "o", "", "Write the JSON result to this file instead of stdout")
	processCmd.Flags().StringVar(&processExportFile, "export", "", "Also export the result as an XLSX report")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// A single synchronous run has nobody polling a shared store.
	cfg.Store.Backend = "memory"

	log := logger.New(cfg.Environment, cfg.LogLevel)
	log.Logger.SetOutput(cmd.ErrOrStderr())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	a, err := app.New(ctx, cfg, log.Component("audit"))
	if err != nil {
		return err
	}
	defer func() { _ = a.Shutdown(context.Background()) }()

	_, res, err := a.Service.ProcessSync(ctx, path, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	if processExportFile != "" {
		if err := report.Write(processExportFile, res); err != nil {
			return fmt.Errorf("failed to export report: %w", err)
		}
		log.WithField("path", processExportFile).Info("report exported")
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if processOutputFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	}
	if err := os.WriteFile(processOutputFile, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
