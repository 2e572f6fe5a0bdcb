package services

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"recruitkit/resume-screener/internal/config"
	"recruitkit/resume-screener/internal/metrics"
	"recruitkit/resume-screener/internal/models"
)

// Display names used on section evaluations in the final report.
const (
	sectionNameRequirements     = "Requirements"
	sectionNameResponsibilities = "Responsibilities"
	sectionNameQualifications   = "Qualifications"
)

// FusionEngine merges the quantitative similarity bundle with the judge's
// independent qualitative assessment into the final evaluation report.
type FusionEngine struct {
	judge           JudgmentService
	passThreshold   float64
	reviewThreshold float64
	logger          *zap.Logger
}

func NewFusionEngine(judge JudgmentService, scoring config.ScoringConfig, logger *zap.Logger) *FusionEngine {
	return &FusionEngine{
		judge:           judge,
		passThreshold:   scoring.PassThreshold,
		reviewThreshold: scoring.ReviewThreshold,
		logger:          logger,
	}
}

// Evaluate obtains the blind qualitative judgment, reconciles it with the
// similarity scores, and assembles the evaluation report. A malformed score
// bundle is a FusionError; a judgment that cannot be parsed degrades to the
// unknown-label row instead of aborting.
func (f *FusionEngine) Evaluate(ctx context.Context, cv *models.CV, jd *models.JobPosting, scores *models.ScoreBundle) (*models.EvaluationReport, error) {
	if err := validateBundle(scores); err != nil {
		return nil, err
	}

	judgment, err := f.judge.Judge(ctx, cv, jd)
	if err != nil {
		var parseErr *JudgmentParseError
		if !errors.As(err, &parseErr) {
			return nil, err
		}

		f.logger.Warn("judgment response unparseable, degrading to unknown label",
			zap.Error(err))
		metrics.JudgmentParseFallbacks.Inc()
		judgment = emptyJudgment()
	}

	label := models.ParseDecision(judgment.Label)
	decision := ReconcileDecision(label, scores.Overall.Mean, f.passThreshold, f.reviewThreshold)

	f.logger.Info("decision reconciled",
		zap.String("qualitative_label", string(label)),
		zap.Float64("overall_mean", scores.Overall.Mean),
		zap.String("final_decision", string(decision)))

	report := &models.EvaluationReport{
		Decision:     decision,
		OverallScore: scores.Overall,
		RequirementsEvaluation: sectionEvaluation(
			sectionNameRequirements, scores.Requirements, judgment.RequirementsEvaluation),
		ResponsibilitiesEvaluation: sectionEvaluation(
			sectionNameResponsibilities, scores.Responsibilities, judgment.ResponsibilitiesEvaluation),
		QualificationsEvaluation: sectionEvaluation(
			sectionNameQualifications, scores.Qualifications, judgment.QualificationsEvaluation),
		FinalExplanation: judgment.FinalExplanation,
		Strengths:        append([]string{}, judgment.RequirementsEvaluation.KeyMatches...),
		Weaknesses:       append([]string{}, judgment.RequirementsEvaluation.Gaps...),
		Recommendation:   judgment.Recommendation,
	}

	return report, nil
}

// ReconcileDecision is the fusion policy, implemented as an exact lookup over
// the qualitative label and the mean-score bucket:
//
//	label     | mean >= pass | review <= mean < pass | mean < review
//	REJECT    | REJECT       | REJECT                | REJECT
//	PASS      | PASS         | REVIEW                | REVIEW
//	REVIEW    | REVIEW       | REVIEW                | REJECT
//	unknown   | REVIEW       | REVIEW                | REJECT
//
// A qualitative REJECT is an absolute veto. A qualitative PASS without
// numeric support is downgraded, never auto-approved. A qualitative REVIEW
// sinks to REJECT only when the numeric score is very low.
func ReconcileDecision(label models.Decision, mean, passThreshold, reviewThreshold float64) models.Decision {
	high := mean >= passThreshold
	low := mean < reviewThreshold

	switch label {
	case models.DecisionReject:
		return models.DecisionReject
	case models.DecisionPass:
		if high {
			return models.DecisionPass
		}
		return models.DecisionReview
	case models.DecisionReview:
		if low {
			return models.DecisionReject
		}
		return models.DecisionReview
	default:
		if low {
			return models.DecisionReject
		}
		return models.DecisionReview
	}
}

func sectionEvaluation(name string, score float64, judged models.SectionEvaluation) models.SectionEvaluation {
	// The similarity score always comes from the scorer; the judge never
	// authors this number because it never saw the scores.
	return models.SectionEvaluation{
		SectionName:     name,
		SimilarityScore: score,
		Explanation:     judged.Explanation,
		KeyMatches:      append([]string{}, judged.KeyMatches...),
		Gaps:            append([]string{}, judged.Gaps...),
	}
}

func validateBundle(scores *models.ScoreBundle) error {
	if scores == nil {
		return &FusionError{Reason: "similarity score bundle is nil"}
	}

	values := []float64{
		scores.Requirements,
		scores.Responsibilities,
		scores.Qualifications,
		scores.Overall.Raw,
		scores.Overall.Mean,
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &FusionError{Reason: "similarity score bundle contains non-finite values"}
		}
	}

	return nil
}

func emptyJudgment() *models.Judgment {
	empty := models.SectionEvaluation{KeyMatches: []string{}, Gaps: []string{}}
	return &models.Judgment{
		RequirementsEvaluation:     empty,
		ResponsibilitiesEvaluation: empty,
		QualificationsEvaluation:   empty,
	}
}
