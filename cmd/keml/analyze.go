package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/keml-analysis/internal/config"
	"github.com/Harshitk-cp/keml-analysis/internal/loader"
	"github.com/Harshitk-cp/keml-analysis/internal/postprocess"
	"github.com/Harshitk-cp/keml-analysis/internal/report"
	"github.com/Harshitk-cp/keml-analysis/internal/service"
)

const inputDirName = "keml"

var (
	analyzeMinWeight     int
	analyzeMaxWeight     int
	analyzeAuthor        float64
	analyzeDistinguished string
	analyzeRecord        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [folder]",
	Short: "Analyse every conversation in <folder>/keml",
	Long:  "Writes one report folder per conversation under <folder>/analysis, or ANALYSIS_OUTPUT_DIR. Failing conversations are logged and skipped.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		folder := "."
		if len(args) == 1 {
			folder = args[0]
		}

		job := analyzeJob{
			inputDir:  filepath.Join(folder, inputDirName),
			outputDir: outputDir(folder, config.AnalysisOutputDir()),
			opts:      sweepOptions(cmd),
			hook:      postprocess.NewHook(config.PostprocessCommand(), zap.L()),
			logger:    zap.L(),
		}

		if analyzeRecord {
			runs, closeStore, err := initRunService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()
			job.runs = runs
		}

		done, err := job.run(ctx)
		for _, d := range done {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		return err
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeMinWeight, "min-weight", service.DefaultMinWeight, "lowest argumentation weight of the sweep (default TRUST_WEIGHT_MIN)")
	analyzeCmd.Flags().IntVar(&analyzeMaxWeight, "max-weight", service.DefaultMaxWeight, "highest argumentation weight of the sweep (default TRUST_WEIGHT_MAX)")
	analyzeCmd.Flags().Float64Var(&analyzeAuthor, "author", service.DefaultAuthorTrust, "initial trust of prior knowledge (default AUTHOR_TRUST)")
	analyzeCmd.Flags().StringVar(&analyzeDistinguished, "distinguished", service.DefaultDistinguishedPartner, "partner singled out by the trust presets (default DISTINGUISHED_PARTNER)")
	analyzeCmd.Flags().BoolVar(&analyzeRecord, "record", false, "store run summaries in DATABASE_URL")
	rootCmd.AddCommand(analyzeCmd)
}

// sweepOptions takes explicit flags over the environment.
func sweepOptions(cmd *cobra.Command) service.SweepOptions {
	opts := service.SweepOptions{
		MinWeight:     config.TrustWeightMin(),
		MaxWeight:     config.TrustWeightMax(),
		Author:        config.AuthorTrust(),
		Distinguished: config.DistinguishedPartner(),
	}
	flags := cmd.Flags()
	if flags.Changed("min-weight") {
		opts.MinWeight = analyzeMinWeight
	}
	if flags.Changed("max-weight") {
		opts.MaxWeight = analyzeMaxWeight
	}
	if flags.Changed("author") {
		opts.Author = analyzeAuthor
	}
	if flags.Changed("distinguished") {
		opts.Distinguished = analyzeDistinguished
	}
	return opts
}

func outputDir(folder, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(folder, dir)
}

type analyzeJob struct {
	inputDir  string
	outputDir string
	opts      service.SweepOptions
	hook      *postprocess.Hook
	runs      *service.RunService
	logger    *zap.Logger
}

// run analyses every conversation file and returns the written folders.
// It keeps going after a failing file and reports all failures at the end.
func (j analyzeJob) run(ctx context.Context) ([]string, error) {
	files, err := loader.Discover(j.inputDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, eris.Errorf("analyze: no conversation files in %s", j.inputDir)
	}

	svc := service.NewAnalysisService(nil, j.logger)
	var done, failed []string
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return done, eris.Wrap(err, "analyze: interrupted")
		}
		dir, err := j.one(ctx, svc, path)
		if err != nil {
			j.logger.Error("analysis failed", zap.String("file", path), zap.Error(err))
			failed = append(failed, filepath.Base(path))
			continue
		}
		done = append(done, dir)
	}

	if j.hook.Enabled() && len(done) > 0 {
		if err := j.hook.Run(ctx, j.outputDir); err != nil {
			j.logger.Warn("post-processing failed", zap.Error(err))
		}
	}

	j.logger.Info("analysis complete",
		zap.Int("files", len(files)),
		zap.Int("failed", len(failed)),
		zap.String("output", j.outputDir))
	if len(failed) > 0 {
		return done, eris.Errorf("analyze: %d of %d conversations failed: %s", len(failed), len(files), strings.Join(failed, ", "))
	}
	return done, nil
}

func (j analyzeJob) one(ctx context.Context, svc *service.AnalysisService, path string) (string, error) {
	conv, err := loader.Load(path)
	if err != nil {
		return "", err
	}
	a, err := svc.Analyze(ctx, conv, j.opts)
	if err != nil {
		return "", eris.Wrapf(err, "analyze %s", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dir := filepath.Join(j.outputDir, name)
	if _, err := report.WriteBundle(dir, name, a, j.opts.Distinguished); err != nil {
		return "", err
	}

	if j.runs != nil && j.runs.Enabled() {
		if _, err := j.runs.Record(ctx, path, a); err != nil {
			j.logger.Warn("failed to record run", zap.String("file", path), zap.Error(err))
		}
	}
	return dir, nil
}
