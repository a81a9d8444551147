package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"exam-mixer/internal/document"
	"exam-mixer/internal/domain"
	"exam-mixer/internal/dto"
	"exam-mixer/internal/extractor"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Print question counts and the topic/difficulty breakdown of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if err := inspectFile(cmd.OutOrStdout(), path); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be inspected", failed, len(args))
			}
			return nil
		},
	}
}

func inspectFile(w io.Writer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines, err := document.Decode(filepath.Base(path), content)
	if err != nil {
		return err
	}
	questions, err := extractor.Extract(lines)
	if err != nil {
		return err
	}

	b := dto.NewBreakdownResponse(domain.Categorize(questions))
	fmt.Fprintf(w, "%s: %d questions\n", path, b.Total)
	fmt.Fprintf(w, "  theory    easy=%d medium=%d hard=%d\n", b.Theory.Easy, b.Theory.Medium, b.Theory.Hard)
	fmt.Fprintf(w, "  practice  easy=%d medium=%d hard=%d\n", b.Practice.Easy, b.Practice.Medium, b.Practice.Hard)
	fmt.Fprintf(w, "  uncategorized %d\n", b.Uncategorized)
	for _, warning := range document.Inspect(lines) {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	return nil
}
