// Command examgen generates exam packages from local question documents
// without running the API server.
package main

import (
	"fmt"
	"os"

	"exam-mixer/internal/adapter/answerkey"
	"exam-mixer/internal/config"
	"exam-mixer/internal/logger"
	"exam-mixer/internal/service"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "examgen",
		Short:         "Build shuffled multiple-choice exams from .docx or .txt question banks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig()
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				loaded.Logger.Level = "debug"
			}
			if err := logger.Initialize(loaded.Logger); err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(newInspectCmd())
	root.AddCommand(newGenerateCmd(func() (service.ExamService, *config.Config, error) {
		filler, err := answerkey.New(cfg.AnswerKey)
		if err != nil {
			return nil, nil, err
		}
		return service.NewExamService(nil, nil, filler, cfg), cfg, nil
	}))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
