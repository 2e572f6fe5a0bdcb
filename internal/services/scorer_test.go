package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"go.uber.org/zap"

	"recruitkit/resume-screener/internal/config"
	"recruitkit/resume-screener/internal/models"
)

// stubEmbedder returns a fixed unit vector per exact input text so cosine
// similarities in tests are known in advance.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	v, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("unexpected embedding input: %q", text)
	}
	return v, nil
}

func equalWeights() config.SectionWeights {
	return config.SectionWeights{
		Requirements:     1.0 / 3.0,
		Responsibilities: 1.0 / 3.0,
		Qualifications:   1.0 / 3.0,
	}
}

func testFlatMaps() (map[string]string, map[string]string) {
	cvFlat := map[string]string{
		models.SectionEducation:      "edu",
		models.SectionSkills:         "skill",
		models.SectionExperience:     "exp",
		models.SectionCertifications: "cert",
		models.SectionProjects:       "proj",
	}
	jdFlat := map[string]string{
		models.SectionRequirements:     "req",
		models.SectionResponsibilities: "resp",
		models.SectionQualifications:   "qual",
	}
	return cvFlat, jdFlat
}

// Unit vectors whose dot product against [1,0] equals the wanted similarity.
func alignedVectors() map[string][]float32 {
	unit := func(c float64) []float32 {
		return []float32{float32(c), float32(math.Sqrt(1 - c*c))}
	}

	return map[string][]float32{
		"req":  {1, 0},
		"resp": {1, 0},
		"qual": {1, 0},

		"edu proj":   unit(0.8),
		"exp proj":   unit(0.6),
		"skill cert": unit(0.7),

		"req resp qual":           {1, 0},
		"edu skill exp cert proj": unit(0.5),
	}
}

func TestScoreSectionAlignment(t *testing.T) {
	scorer := NewSimilarityScorer(&stubEmbedder{vectors: alignedVectors()}, equalWeights(), zap.NewNop())
	cvFlat, jdFlat := testFlatMaps()

	bundle, err := scorer.Score(context.Background(), cvFlat, jdFlat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const eps = 1e-6
	if math.Abs(bundle.Requirements-0.8) > eps {
		t.Errorf("requirements: got %v, want 0.8", bundle.Requirements)
	}
	if math.Abs(bundle.Responsibilities-0.6) > eps {
		t.Errorf("responsibilities: got %v, want 0.6", bundle.Responsibilities)
	}
	if math.Abs(bundle.Qualifications-0.7) > eps {
		t.Errorf("qualifications: got %v, want 0.7", bundle.Qualifications)
	}
	if math.Abs(bundle.Overall.Raw-0.5) > eps {
		t.Errorf("overall raw: got %v, want 0.5", bundle.Overall.Raw)
	}

	wantMean := (0.8 + 0.6 + 0.7) / 3.0
	if math.Abs(bundle.Overall.Mean-wantMean) > eps {
		t.Errorf("overall mean: got %v, want %v", bundle.Overall.Mean, wantMean)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	scorer := NewSimilarityScorer(&stubEmbedder{vectors: alignedVectors()}, equalWeights(), zap.NewNop())
	cvFlat, jdFlat := testFlatMaps()

	first, err := scorer.Score(context.Background(), cvFlat, jdFlat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := scorer.Score(context.Background(), cvFlat, jdFlat)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if *again != *first {
			t.Fatalf("run %d: bundle changed from %+v to %+v", i, first, again)
		}
	}
}

func TestScoreEmptyMapIsScoringError(t *testing.T) {
	scorer := NewSimilarityScorer(&stubEmbedder{}, equalWeights(), zap.NewNop())

	_, jdFlat := testFlatMaps()
	_, err := scorer.Score(context.Background(), nil, jdFlat)

	var scoringErr *ScoringError
	if !errors.As(err, &scoringErr) {
		t.Fatalf("expected ScoringError for empty CV map, got %v", err)
	}

	cvFlat, _ := testFlatMaps()
	_, err = scorer.Score(context.Background(), cvFlat, map[string]string{})
	if !errors.As(err, &scoringErr) {
		t.Fatalf("expected ScoringError for empty job map, got %v", err)
	}
}

func TestScoreEmptySectionsYieldExactZero(t *testing.T) {
	// Empty text never reaches the embedder; it maps to the zero vector and
	// cosine similarity against it is exactly 0.0.
	scorer := NewSimilarityScorer(&stubEmbedder{}, equalWeights(), zap.NewNop())

	cvFlat := map[string]string{
		models.SectionEducation:      "",
		models.SectionSkills:         "",
		models.SectionExperience:     "",
		models.SectionCertifications: "",
		models.SectionProjects:       "",
	}
	jdFlat := map[string]string{
		models.SectionRequirements:     "",
		models.SectionResponsibilities: "",
		models.SectionQualifications:   "",
	}

	bundle, err := scorer.Score(context.Background(), cvFlat, jdFlat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, got := range map[string]float64{
		"requirements":     bundle.Requirements,
		"responsibilities": bundle.Responsibilities,
		"qualifications":   bundle.Qualifications,
		"overall raw":      bundle.Overall.Raw,
		"overall mean":     bundle.Overall.Mean,
	} {
		if got != 0.0 {
			t.Errorf("%s: got %v, want exactly 0.0", name, got)
		}
	}
}

func TestScoreMeanBoundedBySectionScores(t *testing.T) {
	// For any non-negative weights summing to 1, the weighted mean stays
	// between the smallest and largest section score.
	rng := rand.New(rand.NewSource(11))
	cvFlat, jdFlat := testFlatMaps()

	unit := func(c float64) []float32 {
		return []float32{float32(c), float32(math.Sqrt(1 - c*c))}
	}

	const eps = 1e-5
	for i := 0; i < 200; i++ {
		req := rng.Float64()
		resp := rng.Float64()
		qual := rng.Float64()

		w1, w2, w3 := rng.Float64(), rng.Float64(), rng.Float64()
		sum := w1 + w2 + w3
		weights := config.SectionWeights{
			Requirements:     w1 / sum,
			Responsibilities: w2 / sum,
			Qualifications:   w3 / sum,
		}
		if err := (config.ScoringConfig{PassThreshold: 0.75, ReviewThreshold: 0.60, Weights: weights}).Validate(); err != nil {
			t.Fatalf("trial %d: generated weights invalid: %v", i, err)
		}

		embedder := &stubEmbedder{vectors: map[string][]float32{
			"req":  {1, 0},
			"resp": {1, 0},
			"qual": {1, 0},

			"edu proj":   unit(req),
			"exp proj":   unit(resp),
			"skill cert": unit(qual),

			"req resp qual":           {1, 0},
			"edu skill exp cert proj": unit(rng.Float64()),
		}}

		scorer := NewSimilarityScorer(embedder, weights, zap.NewNop())
		bundle, err := scorer.Score(context.Background(), cvFlat, jdFlat)
		if err != nil {
			t.Fatalf("trial %d: unexpected error: %v", i, err)
		}

		lo := math.Min(bundle.Requirements, math.Min(bundle.Responsibilities, bundle.Qualifications))
		hi := math.Max(bundle.Requirements, math.Max(bundle.Responsibilities, bundle.Qualifications))

		if bundle.Overall.Mean < lo-eps || bundle.Overall.Mean > hi+eps {
			t.Fatalf("trial %d: mean %v outside [%v, %v] (weights %+v)",
				i, bundle.Overall.Mean, lo, hi, weights)
		}
	}
}

func TestScoreEmbedderFailurePropagates(t *testing.T) {
	scorer := NewSimilarityScorer(&stubEmbedder{vectors: map[string][]float32{}}, equalWeights(), zap.NewNop())
	cvFlat, jdFlat := testFlatMaps()

	if _, err := scorer.Score(context.Background(), cvFlat, jdFlat); err == nil {
		t.Fatal("expected embedder failure to propagate")
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero left", []float32{0, 0}, []float32{1, 2}, 0.0},
		{"zero right", []float32{1, 2}, []float32{0, 0}, 0.0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosineSimilarity(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-6 {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
