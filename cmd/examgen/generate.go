package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"exam-mixer/internal/config"
	"exam-mixer/internal/dto"
	"exam-mixer/internal/logger"
	"exam-mixer/internal/service"
	"exam-mixer/internal/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallelFiles bounds how many input files are processed at once.
const maxParallelFiles = 4

type serviceFactory func() (service.ExamService, *config.Config, error)

func newGenerateCmd(build serviceFactory) *cobra.Command {
	var (
		outDir    string
		settings  dto.ExamSettings
		versions  int
		questions int
		easy      int
		medium    int
		hard      int
		theory    float64
		seed      uint64
	)

	cmd := &cobra.Command{
		Use:   "generate <file>...",
		Short: "Write one <name>_exams.zip package per input document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := build()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("versions") {
				settings.NumVersions = &versions
			}
			if flags.Changed("questions") {
				settings.NumQuestions = &questions
			}
			if flags.Changed("easy") {
				settings.EasyPercent = &easy
			}
			if flags.Changed("medium") {
				settings.MediumPercent = &medium
			}
			if flags.Changed("hard") {
				settings.HardPercent = &hard
			}
			if flags.Changed("theory-ratio") {
				settings.TheoryRatio = &theory
			}
			if flags.Changed("seed") {
				settings.Seed = &seed
			}
			settings.ApplyDefaults(cfg.Generation)
			if errs := validation.NewValidator().ValidateExamSettings(settings); len(errs) > 0 {
				return errs
			}

			written, err := generatePackages(cmd.Context(), svc, args, outDir, settings)
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outDir, "output", "o", ".", "Directory for the generated packages")
	flags.IntVarP(&versions, "versions", "n", 0, "Number of exam versions")
	flags.IntVarP(&questions, "questions", "q", 0, "Questions per version")
	flags.IntVar(&easy, "easy", 0, "Percentage of easy questions")
	flags.IntVar(&medium, "medium", 0, "Percentage of medium questions")
	flags.IntVar(&hard, "hard", 0, "Percentage of hard questions")
	flags.Float64Var(&theory, "theory-ratio", 0, "Share of theory questions (0-1)")
	flags.Uint64Var(&seed, "seed", 0, "Random seed; 0 seeds from the clock")
	flags.BoolVar(&settings.IncludeAnswers, "answers", false, "Mark correct options in the exams")
	flags.BoolVar(&settings.AIAnswerKeys, "ai-answer-keys", false, "Fill answer sheets with the answer key service")
	flags.BoolVar(&settings.IncludeStatistics, "statistics", false, "Add ThongKe.txt to each package")
	return cmd
}

// packagePath returns the output path for an input document.
func packagePath(outDir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+"_exams.zip")
}

// generatePackages builds a package for every input concurrently. It returns
// the paths written, in input order, and the first error. Inputs that would
// write the same package are rejected before anything is written.
func generatePackages(ctx context.Context, svc service.ExamService, inputs []string, outDir string, settings dto.ExamSettings) ([]string, error) {
	owners := make(map[string]string, len(inputs))
	for _, input := range inputs {
		out := packagePath(outDir, input)
		if prev, ok := owners[out]; ok {
			return nil, fmt.Errorf("%s and %s both write %s", prev, input, out)
		}
		owners[out] = input
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	results := make([]string, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFiles)

	for i, input := range inputs {
		g.Go(func() error {
			content, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			data, err := svc.BuildPackage(gctx, filepath.Base(input), content, settings)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			out := packagePath(outDir, input)
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("%s: %w", out, err)
			}
			logger.Get().Debug("Wrote exam package", zap.String("input", input), zap.String("output", out))
			results[i] = out
			return nil
		})
	}
	err := g.Wait()

	written := make([]string, 0, len(results))
	for _, path := range results {
		if path != "" {
			written = append(written, path)
		}
	}
	return written, err
}
