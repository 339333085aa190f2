package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"call-auditor-go/internal/detect"
)

var detectCmd = &cobra.Command{
	Use:   "detect <file>...",
	Short: "Print the content category of each file",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	l := logrus.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetLevel(logrus.WarnLevel)
	d := detect.New(logrus.NewEntry(l))

	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", path, d.Detect(path)); err != nil {
			return err
		}
	}
	return nil
}
