// Package main provides the call-auditor command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "audit",
	Short:         "Audit recorded customer conversations",
	Long:          "audit extracts a transcript from a recording, image, PDF or document and scores the conversation against the coaching rubric.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
