package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitkit/resume-screener/internal/models"
	"recruitkit/resume-screener/internal/repositories"
)

type stubEvalRepo struct {
	evaluation *models.Evaluation
	statuses   []models.EvaluationStatus
	result     *repositories.EvaluationUpdateData
	errorMsg   string
}

func (s *stubEvalRepo) Create(eval *models.Evaluation) error { return nil }

func (s *stubEvalRepo) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	if s.evaluation == nil || s.evaluation.ID != id {
		return nil, fmt.Errorf("evaluation not found")
	}
	return s.evaluation, nil
}

func (s *stubEvalRepo) UpdateStatus(_ uuid.UUID, status models.EvaluationStatus) error {
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *stubEvalRepo) UpdateResult(_ uuid.UUID, result *repositories.EvaluationUpdateData) error {
	s.result = result
	return nil
}

func (s *stubEvalRepo) UpdateError(_ uuid.UUID, errorMsg string) error {
	s.errorMsg = errorMsg
	return nil
}

func (s *stubEvalRepo) FindPendingJobs(int) ([]models.Evaluation, error) { return nil, nil }

type stubDocRepo struct {
	docs map[uuid.UUID]*models.Document
}

func (s *stubDocRepo) Create(*models.Document) error { return nil }

func (s *stubDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document not found")
	}
	return doc, nil
}

func (s *stubDocRepo) FindByIDs([]uuid.UUID) ([]models.Document, error) { return nil, nil }

// constEmbedder returns the same unit vector for every input, so every cosine
// similarity in the pipeline is 1.0.
type constEmbedder struct{}

func (constEmbedder) GenerateEmbedding(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func pipelineFixture(t *testing.T, cvPath, jdPath string) (*stubEvalRepo, EvaluatorService, uuid.UUID) {
	t.Helper()

	evalID := uuid.New()
	cvDocID := uuid.New()
	jobDocID := uuid.New()

	evalRepo := &stubEvalRepo{evaluation: &models.Evaluation{
		ID:            evalID,
		JobTitle:      "Backend Engineer",
		CVDocumentID:  cvDocID,
		JobDocumentID: jobDocID,
		Status:        models.StatusQueued,
	}}

	docRepo := &stubDocRepo{docs: map[uuid.UUID]*models.Document{
		cvDocID:  {ID: cvDocID, FileType: models.DocumentTypeCV, FilePath: cvPath},
		jobDocID: {ID: jobDocID, FileType: models.DocumentTypeJobDescription, FilePath: jdPath},
	}}

	extractionStub := &stubExtractionClient{responses: fullCVResponses()}
	extractionStub.responses[models.SectionRequirements] = `[{"name": "Go experience"}]`
	extractionStub.responses[models.SectionResponsibilities] = `[{"name": "Build services"}]`
	extractionStub.responses[models.SectionQualifications] = `[{"name": "Go"}]`

	logger := zap.NewNop()
	scorer := NewSimilarityScorer(constEmbedder{}, equalWeights(), logger)
	judge := &stubJudge{judgment: &models.Judgment{Label: "PASS", Recommendation: "hire"}}
	fusion := NewFusionEngine(judge, testScoring(), logger)

	evaluator := NewEvaluatorService(
		evalRepo,
		docRepo,
		NewDocumentParser(),
		NewSectionExtractor(extractionStub, 3, logger),
		scorer,
		fusion,
		constEmbedder{},
		nil,
		logger,
	)

	return evalRepo, evaluator, evalID
}

func TestEvaluateCandidatePersistsReport(t *testing.T) {
	dir := t.TempDir()
	cvPath := writeDoc(t, dir, "cv.txt", "Jane Doe\nBackend engineer, Go and PostgreSQL.")
	jdPath := writeDoc(t, dir, "jd.txt", "Backend Engineer\nGo experience required.")

	evalRepo, evaluator, evalID := pipelineFixture(t, cvPath, jdPath)

	if err := evaluator.EvaluateCandidate(context.Background(), evalID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(evalRepo.statuses) == 0 || evalRepo.statuses[0] != models.StatusProcessing {
		t.Errorf("expected processing status first, got %v", evalRepo.statuses)
	}

	if evalRepo.result == nil {
		t.Fatal("result not persisted")
	}
	if evalRepo.result.Decision == nil || *evalRepo.result.Decision != "PASS" {
		t.Errorf("decision: got %v", evalRepo.result.Decision)
	}
	if evalRepo.result.OverallMean == nil || *evalRepo.result.OverallMean < 0.999 {
		t.Errorf("overall mean: got %v", evalRepo.result.OverallMean)
	}

	var report models.EvaluationReport
	if evalRepo.result.Report == nil {
		t.Fatal("report JSON not persisted")
	}
	if err := json.Unmarshal([]byte(*evalRepo.result.Report), &report); err != nil {
		t.Fatalf("persisted report is not valid JSON: %v", err)
	}
	if report.Recommendation != "hire" {
		t.Errorf("recommendation: got %q", report.Recommendation)
	}
}

func TestEvaluateCandidateRecordsParseFailure(t *testing.T) {
	dir := t.TempDir()
	jdPath := writeDoc(t, dir, "jd.txt", "Backend Engineer\nGo experience required.")

	// The CV document points at a file that does not exist.
	evalRepo, evaluator, evalID := pipelineFixture(t, filepath.Join(dir, "missing.pdf"), jdPath)

	if err := evaluator.EvaluateCandidate(context.Background(), evalID); err == nil {
		t.Fatal("expected error for missing CV file")
	}

	if evalRepo.errorMsg == "" {
		t.Fatal("parse failure not written back to the evaluation")
	}
	if evalRepo.result != nil {
		t.Fatal("no result should be persisted on failure")
	}
}

func TestEvaluateCandidateUnknownEvaluation(t *testing.T) {
	dir := t.TempDir()
	cvPath := writeDoc(t, dir, "cv.txt", "text")
	jdPath := writeDoc(t, dir, "jd.txt", "text")

	_, evaluator, _ := pipelineFixture(t, cvPath, jdPath)

	if err := evaluator.EvaluateCandidate(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for unknown evaluation ID")
	}
}
