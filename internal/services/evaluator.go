package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitkit/resume-screener/internal/metrics"
	"recruitkit/resume-screener/internal/models"
	"recruitkit/resume-screener/internal/repositories"
)

type EvaluatorService interface {
	EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error
}

type evaluatorService struct {
	evalRepo  repositories.EvaluationRepository
	docRepo   repositories.DocumentRepository
	parser    DocumentParser
	extractor *SectionExtractor
	scorer    *SimilarityScorer
	fusion    *FusionEngine
	embedder  EmbeddingService
	index     CandidateIndex
	logger    *zap.Logger
}

func NewEvaluatorService(
	evalRepo repositories.EvaluationRepository,
	docRepo repositories.DocumentRepository,
	parser DocumentParser,
	extractor *SectionExtractor,
	scorer *SimilarityScorer,
	fusion *FusionEngine,
	embedder EmbeddingService,
	index CandidateIndex,
	logger *zap.Logger,
) EvaluatorService {
	return &evaluatorService{
		evalRepo:  evalRepo,
		docRepo:   docRepo,
		parser:    parser,
		extractor: extractor,
		scorer:    scorer,
		fusion:    fusion,
		embedder:  embedder,
		index:     index,
		logger:    logger,
	}
}

// EvaluateCandidate runs the full pipeline for one queued evaluation:
// parse, clean, extract, score, fuse, persist. Stage errors are written
// back to the evaluation row before being returned.
func (e *evaluatorService) EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error {
	started := time.Now()

	if err := e.evalRepo.UpdateStatus(evalID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	e.logger.Info("starting evaluation", zap.String("evaluation_id", evalID.String()))

	evaluation, err := e.evalRepo.FindByID(evalID)
	if err != nil {
		e.failStage(evalID, "load", err)
		return fmt.Errorf("failed to get evaluation: %w", err)
	}

	cvDoc, err := e.docRepo.FindByID(evaluation.CVDocumentID)
	if err != nil {
		e.failStage(evalID, "load", err)
		return fmt.Errorf("failed to get CV document: %w", err)
	}

	jobDoc, err := e.docRepo.FindByID(evaluation.JobDocumentID)
	if err != nil {
		e.failStage(evalID, "load", err)
		return fmt.Errorf("failed to get job description document: %w", err)
	}

	// Stage 1: retrieval
	e.logger.Info("parsing documents", zap.String("evaluation_id", evalID.String()))
	cvRaw, err := e.parser.ExtractText(cvDoc.FilePath)
	if err != nil {
		e.failStage(evalID, "retrieval", err)
		return fmt.Errorf("failed to parse CV: %w", err)
	}

	jobRaw, err := e.parser.ExtractText(jobDoc.FilePath)
	if err != nil {
		e.failStage(evalID, "retrieval", err)
		return fmt.Errorf("failed to parse job description: %w", err)
	}

	// Stage 2: cleaning
	cvText := CleanText(cvRaw)
	jobText := CleanText(jobRaw)

	// Stage 3: structured extraction, CV and job description in parallel
	e.logger.Info("extracting structured sections", zap.String("evaluation_id", evalID.String()))
	cv, jd, err := e.extractBoth(ctx, cvText, jobText)
	if err != nil {
		e.failStage(evalID, "extraction", err)
		return fmt.Errorf("extraction failed: %w", err)
	}

	// Stage 4: similarity scoring
	e.logger.Info("scoring similarity", zap.String("evaluation_id", evalID.String()))
	bundle, err := e.scorer.Score(ctx, FlattenCV(cv), FlattenJobPosting(jd))
	if err != nil {
		e.failStage(evalID, "scoring", err)
		return fmt.Errorf("scoring failed: %w", err)
	}

	// Stage 5: qualitative judgment and decision fusion
	e.logger.Info("running decision fusion", zap.String("evaluation_id", evalID.String()))
	report, err := e.fusion.Evaluate(ctx, cv, jd, bundle)
	if err != nil {
		e.failStage(evalID, "fusion", err)
		return fmt.Errorf("fusion failed: %w", err)
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		e.failStage(evalID, "persist", err)
		return fmt.Errorf("failed to encode report: %w", err)
	}

	decision := string(report.Decision)
	reportStr := string(reportJSON)
	updateData := &repositories.EvaluationUpdateData{
		Decision:    &decision,
		OverallRaw:  &report.OverallScore.Raw,
		OverallMean: &report.OverallScore.Mean,
		Report:      &reportStr,
	}

	if err := e.evalRepo.UpdateResult(evalID, updateData); err != nil {
		metrics.StageFailures.WithLabelValues("persist").Inc()
		return fmt.Errorf("failed to save results: %w", err)
	}

	// Index the candidate for similar-candidate lookups. Failures here do
	// not fail the evaluation, the report is already persisted.
	if err := e.indexCandidate(ctx, evalID, evaluation.JobTitle, report, cvText); err != nil {
		e.logger.Warn("failed to index candidate",
			zap.String("evaluation_id", evalID.String()),
			zap.Error(err))
	}

	metrics.EvaluationsTotal.WithLabelValues(decision).Inc()
	metrics.PipelineDuration.Observe(time.Since(started).Seconds())

	e.logger.Info("evaluation completed",
		zap.String("evaluation_id", evalID.String()),
		zap.String("decision", decision),
		zap.Float64("overall_mean", report.OverallScore.Mean),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

func (e *evaluatorService) extractBoth(ctx context.Context, cvText, jobText string) (*models.CV, *models.JobPosting, error) {
	var (
		wg     sync.WaitGroup
		cv     *models.CV
		jd     *models.JobPosting
		cvErr  error
		jobErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cv, cvErr = e.extractor.ExtractCV(ctx, cvText)
	}()
	go func() {
		defer wg.Done()
		jd, jobErr = e.extractor.ExtractJob(ctx, jobText)
	}()
	wg.Wait()

	if cvErr != nil {
		return nil, nil, cvErr
	}
	if jobErr != nil {
		return nil, nil, jobErr
	}
	return cv, jd, nil
}

func (e *evaluatorService) indexCandidate(ctx context.Context, evalID uuid.UUID, jobTitle string, report *models.EvaluationReport, cvText string) error {
	if e.index == nil {
		return nil
	}

	embedding, err := e.embedder.GenerateEmbedding(ctx, cvText)
	if err != nil {
		return fmt.Errorf("failed to embed CV for indexing: %w", err)
	}

	return e.index.IndexCandidate(ctx, evalID, jobTitle,
		string(report.Decision), report.OverallScore.Mean, embedding)
}

func (e *evaluatorService) failStage(evalID uuid.UUID, stage string, err error) {
	metrics.StageFailures.WithLabelValues(stage).Inc()
	if updErr := e.evalRepo.UpdateError(evalID, err.Error()); updErr != nil {
		e.logger.Error("failed to record evaluation error",
			zap.String("evaluation_id", evalID.String()),
			zap.Error(updErr))
	}
}
