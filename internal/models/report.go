package models

import "strings"

// Decision is the final hiring decision. It is a closed set: the pipeline
// never emits anything outside PASS / REVIEW / REJECT.
type Decision string

const (
	DecisionPass   Decision = "PASS"
	DecisionReview Decision = "REVIEW"
	DecisionReject Decision = "REJECT"

	// DecisionUnknown is used internally when the judge's free-text label
	// cannot be mapped. It never appears in a final report.
	DecisionUnknown Decision = "UNKNOWN"
)

// ParseDecision maps the judge's free-text label into the closed enum.
// Anything unrecognized becomes DecisionUnknown so the fusion table can apply
// its safe-default row.
func ParseDecision(label string) Decision {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "PASS":
		return DecisionPass
	case "REVIEW":
		return DecisionReview
	case "REJECT":
		return DecisionReject
	default:
		return DecisionUnknown
	}
}

// OverallScore carries the two aggregate similarity numbers. Raw compares the
// full concatenated texts; Mean is the weighted combination of the three
// section scores.
type OverallScore struct {
	Raw  float64 `json:"raw"`
	Mean float64 `json:"mean"`
}

// ScoreBundle is the similarity scorer's output.
type ScoreBundle struct {
	Requirements     float64      `json:"requirements"`
	Responsibilities float64      `json:"responsibilities"`
	Qualifications   float64      `json:"qualifications"`
	Overall          OverallScore `json:"overall"`
}

// SectionEvaluation pairs a quantitative similarity score with the judge's
// qualitative assessment of one job-description section.
type SectionEvaluation struct {
	SectionName     string   `json:"section_name"`
	SimilarityScore float64  `json:"similarity_score"`
	Explanation     string   `json:"explanation"`
	KeyMatches      []string `json:"key_matches"`
	Gaps            []string `json:"gaps"`
}

// EvaluationReport is the pipeline's final artifact.
type EvaluationReport struct {
	Decision     Decision     `json:"decision"`
	OverallScore OverallScore `json:"overall_score"`

	RequirementsEvaluation     SectionEvaluation `json:"requirements_evaluation"`
	ResponsibilitiesEvaluation SectionEvaluation `json:"responsibilities_evaluation"`
	QualificationsEvaluation   SectionEvaluation `json:"qualifications_evaluation"`

	FinalExplanation string   `json:"final_explanation"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	Recommendation   string   `json:"recommendation"`
}

// Judgment is the parsed response of the qualitative judge. The label is kept
// as-delivered; mapping into Decision happens in the fusion engine.
type Judgment struct {
	Label                      string            `json:"decision"`
	RequirementsEvaluation     SectionEvaluation `json:"requirements_evaluation"`
	ResponsibilitiesEvaluation SectionEvaluation `json:"responsibilities_evaluation"`
	QualificationsEvaluation   SectionEvaluation `json:"qualifications_evaluation"`
	FinalExplanation           string            `json:"final_explanation"`
	Recommendation             string            `json:"recommendation"`
}
