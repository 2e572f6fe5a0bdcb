package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"recruitkit/resume-screener/internal/config"
	"recruitkit/resume-screener/internal/models"
)

// embeddingDim matches the text-embedding-004 output dimensionality and is
// used for the empty-text sentinel vector.
const embeddingDim = 768

// EmbeddingService is the slice of GeminiService the scorer consumes.
type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// SimilarityScorer computes the pairwise semantic similarity between aligned
// CV and job-description section groups. The alignment is static:
//
//	requirements     <-> education + projects
//	responsibilities <-> experience + projects
//	qualifications   <-> skills + certifications
//
// For fixed embeddings the scorer is a pure function: repeated calls with
// identical inputs return identical bundles.
type SimilarityScorer struct {
	embedder EmbeddingService
	weights  config.SectionWeights
	logger   *zap.Logger
}

func NewSimilarityScorer(embedder EmbeddingService, weights config.SectionWeights, logger *zap.Logger) *SimilarityScorer {
	return &SimilarityScorer{
		embedder: embedder,
		weights:  weights,
		logger:   logger,
	}
}

// Score computes the similarity bundle for a flattened CV and job description.
// Both maps are mandatory; a nil or empty map is a ScoringError.
func (s *SimilarityScorer) Score(ctx context.Context, cvFlat, jdFlat map[string]string) (*models.ScoreBundle, error) {
	if len(cvFlat) == 0 {
		return nil, &ScoringError{Reason: "CV section map is empty"}
	}
	if len(jdFlat) == 0 {
		return nil, &ScoringError{Reason: "job description section map is empty"}
	}

	requirements, err := s.similarity(ctx,
		jdFlat[models.SectionRequirements],
		joinTexts(cvFlat[models.SectionEducation], cvFlat[models.SectionProjects]))
	if err != nil {
		return nil, fmt.Errorf("requirements similarity: %w", err)
	}

	responsibilities, err := s.similarity(ctx,
		jdFlat[models.SectionResponsibilities],
		joinTexts(cvFlat[models.SectionExperience], cvFlat[models.SectionProjects]))
	if err != nil {
		return nil, fmt.Errorf("responsibilities similarity: %w", err)
	}

	qualifications, err := s.similarity(ctx,
		jdFlat[models.SectionQualifications],
		joinTexts(cvFlat[models.SectionSkills], cvFlat[models.SectionCertifications]))
	if err != nil {
		return nil, fmt.Errorf("qualifications similarity: %w", err)
	}

	raw, err := s.similarity(ctx,
		joinTexts(
			jdFlat[models.SectionRequirements],
			jdFlat[models.SectionResponsibilities],
			jdFlat[models.SectionQualifications]),
		joinTexts(
			cvFlat[models.SectionEducation],
			cvFlat[models.SectionSkills],
			cvFlat[models.SectionExperience],
			cvFlat[models.SectionCertifications],
			cvFlat[models.SectionProjects]))
	if err != nil {
		return nil, fmt.Errorf("overall similarity: %w", err)
	}

	mean := s.weights.Requirements*requirements +
		s.weights.Responsibilities*responsibilities +
		s.weights.Qualifications*qualifications

	bundle := &models.ScoreBundle{
		Requirements:     requirements,
		Responsibilities: responsibilities,
		Qualifications:   qualifications,
		Overall: models.OverallScore{
			Raw:  raw,
			Mean: mean,
		},
	}

	s.logger.Debug("similarity bundle computed",
		zap.Float64("requirements", requirements),
		zap.Float64("responsibilities", responsibilities),
		zap.Float64("qualifications", qualifications),
		zap.Float64("overall_raw", raw),
		zap.Float64("overall_mean", mean))

	return bundle, nil
}

func (s *SimilarityScorer) similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := s.embed(ctx, a)
	if err != nil {
		return 0, err
	}

	vb, err := s.embed(ctx, b)
	if err != nil {
		return 0, err
	}

	return cosineSimilarity(va, vb), nil
}

// embed never sends empty text to the embedding collaborator: an empty string
// maps to the zero vector so cosine similarity against it is defined (0.0).
func (s *SimilarityScorer) embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return make([]float32, embeddingDim), nil
	}

	return s.embedder.GenerateEmbedding(ctx, text)
}

// cosineSimilarity returns dot(a,b) / (|a| * |b|), and exactly 0.0 when either
// norm is zero.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func joinTexts(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
