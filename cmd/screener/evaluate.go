package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recruitkit/resume-screener/internal/config"
	"recruitkit/resume-screener/internal/logger"
	"recruitkit/resume-screener/internal/services"
)

var (
	flagCVPath  string
	flagJDPath  string
	flagOutPath string
	flagFormat  string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a single CV against a job description",
	Long: `Evaluate runs the full screening pipeline on one CV / job description
pair without the API server: parse, clean, extract, score, judge, fuse.
The decision is printed to stdout and the full report written to --out.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return evaluate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&flagCVPath, "cv", "", "path to the CV file (pdf, docx, md or txt)")
	evaluateCmd.Flags().StringVar(&flagJDPath, "jd", "", "path to the job description file")
	evaluateCmd.Flags().StringVar(&flagOutPath, "out", "report.json", "path for the saved report")
	evaluateCmd.Flags().StringVar(&flagFormat, "format", services.FormatJSON, "report format: json or csv")

	evaluateCmd.MarkFlagRequired("cv")
	evaluateCmd.MarkFlagRequired("jd")
}

func evaluate(ctx context.Context) error {
	zlog, err := logger.New(flagJSON, flagDebug)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zlog.Sync()

	cfg := config.Load()
	if err := cfg.Scoring.Validate(); err != nil {
		return fmt.Errorf("invalid scoring configuration: %w", err)
	}

	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	parser := services.NewDocumentParser()

	cvRaw, err := parser.ExtractText(flagCVPath)
	if err != nil {
		return fmt.Errorf("parsing CV: %w", err)
	}

	jdRaw, err := parser.ExtractText(flagJDPath)
	if err != nil {
		return fmt.Errorf("parsing job description: %w", err)
	}

	cvText := services.CleanText(cvRaw)
	jdText := services.CleanText(jdRaw)

	gemini, err := services.NewGeminiService(
		ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, zlog)
	if err != nil {
		return fmt.Errorf("initializing Gemini client: %w", err)
	}

	extractor := services.NewSectionExtractor(gemini, cfg.Worker.RetryMaxAttempts, zlog)

	zlog.Info("extracting structured sections")
	cv, err := extractor.ExtractCV(ctx, cvText)
	if err != nil {
		return fmt.Errorf("extracting CV: %w", err)
	}

	jd, err := extractor.ExtractJob(ctx, jdText)
	if err != nil {
		return fmt.Errorf("extracting job description: %w", err)
	}

	zlog.Info("scoring similarity")
	scorer := services.NewSimilarityScorer(gemini, cfg.Scoring.Weights, zlog)
	bundle, err := scorer.Score(ctx, services.FlattenCV(cv), services.FlattenJobPosting(jd))
	if err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	zlog.Info("running decision fusion")
	judge := services.NewQualitativeJudge(gemini, cfg.Worker.RetryMaxAttempts, zlog)
	fusion := services.NewFusionEngine(judge, cfg.Scoring, zlog)

	report, err := fusion.Evaluate(ctx, cv, jd, bundle)
	if err != nil {
		return fmt.Errorf("fusion: %w", err)
	}

	saver := services.NewReportSaver()
	if err := saver.Save(report, flagOutPath, flagFormat); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}

	zlog.Info("report saved", zap.String("path", flagOutPath), zap.String("format", flagFormat))

	fmt.Fprintf(os.Stdout, "decision: %s (overall mean %.4f, raw %.4f)\n",
		report.Decision, report.OverallScore.Mean, report.OverallScore.Raw)
	return nil
}
