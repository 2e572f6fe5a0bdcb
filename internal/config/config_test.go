package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func validScoring() ScoringConfig {
	return ScoringConfig{
		PassThreshold:   0.75,
		ReviewThreshold: 0.60,
		Weights: SectionWeights{
			Requirements:     1.0 / 3.0,
			Responsibilities: 1.0 / 3.0,
			Qualifications:   1.0 / 3.0,
		},
	}
}

func TestScoringValidate(t *testing.T) {
	if err := validScoring().Validate(); err != nil {
		t.Fatalf("default scoring should validate: %v", err)
	}

	s := validScoring()
	s.PassThreshold = 0.60
	if err := s.Validate(); err == nil {
		t.Error("pass threshold equal to review threshold should fail")
	}

	s = validScoring()
	s.ReviewThreshold = 0.80
	if err := s.Validate(); err == nil {
		t.Error("review threshold above pass threshold should fail")
	}

	s = validScoring()
	s.Weights.Requirements = -0.1
	s.Weights.Responsibilities = 0.6
	s.Weights.Qualifications = 0.5
	if err := s.Validate(); err == nil {
		t.Error("negative weight should fail even when the sum is 1")
	}

	s = validScoring()
	s.Weights.Qualifications = 0.5
	if err := s.Validate(); err == nil {
		t.Error("weights not summing to 1 should fail")
	}
}

func TestScoringValidateUnevenWeights(t *testing.T) {
	s := validScoring()
	s.Weights = SectionWeights{Requirements: 0.5, Responsibilities: 0.3, Qualifications: 0.2}
	if err := s.Validate(); err != nil {
		t.Fatalf("uneven weights summing to 1 should validate: %v", err)
	}
}

func TestDefaultScoringIsValid(t *testing.T) {
	s := defaultScoring()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	sum := s.Weights.Requirements + s.Weights.Responsibilities + s.Weights.Qualifications
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("default weights sum to %v", sum)
	}
}

func TestScoringEnvOverrides(t *testing.T) {
	t.Setenv("PASS_THRESHOLD", "0.85")
	t.Setenv("REVIEW_THRESHOLD", "0.55")

	s := defaultScoring()
	s.applyEnvOverrides()

	if s.PassThreshold != 0.85 {
		t.Errorf("pass threshold: got %v", s.PassThreshold)
	}
	if s.ReviewThreshold != 0.55 {
		t.Errorf("review threshold: got %v", s.ReviewThreshold)
	}
}

func TestScoringMergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	content := []byte(`
pass_threshold: 0.8
review_threshold: 0.5
weights:
  requirements: 0.5
  responsibilities: 0.25
  qualifications: 0.25
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	s := defaultScoring()
	if err := s.mergeFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.PassThreshold != 0.8 || s.ReviewThreshold != 0.5 {
		t.Errorf("thresholds: got %v / %v", s.PassThreshold, s.ReviewThreshold)
	}
	if s.Weights.Requirements != 0.5 {
		t.Errorf("requirements weight: got %v", s.Weights.Requirements)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("merged scoring should validate: %v", err)
	}
}

func TestScoringMergeFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	if err := os.WriteFile(path, []byte("pass_threshold: 0.9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := defaultScoring()
	if err := s.mergeFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.PassThreshold != 0.9 {
		t.Errorf("pass threshold: got %v", s.PassThreshold)
	}
	// Unset keys keep their defaults.
	if s.ReviewThreshold != 0.60 {
		t.Errorf("review threshold: got %v", s.ReviewThreshold)
	}
	if s.Weights != defaultScoring().Weights {
		t.Errorf("weights changed: %+v", s.Weights)
	}
}

func TestScoringMergeFileMissing(t *testing.T) {
	s := defaultScoring()
	if err := s.mergeFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
