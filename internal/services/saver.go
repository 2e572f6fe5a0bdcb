package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"recruitkit/resume-screener/internal/models"
)

// Report output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ReportSaver persists a finished evaluation report to disk.
type ReportSaver interface {
	Save(report *models.EvaluationReport, path, format string) error
}

type reportSaver struct{}

func NewReportSaver() ReportSaver {
	return &reportSaver{}
}

// Save implements ReportSaver. Parent directories are created as needed.
func (s *reportSaver) Save(report *models.EvaluationReport, path, format string) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		return s.saveJSON(report, path)
	case FormatCSV:
		return s.saveCSV(report, path)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (s *reportSaver) saveJSON(report *models.EvaluationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// saveCSV flattens the report into section,field,value rows. Nested lists keep
// their originating section name as the row tag.
func (s *reportSaver) saveCSV(report *models.EvaluationReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	records := [][]string{
		{"section", "field", "value"},
		{"summary", "decision", string(report.Decision)},
		{"summary", "overall_raw", formatScore(report.OverallScore.Raw)},
		{"summary", "overall_mean", formatScore(report.OverallScore.Mean)},
		{"summary", "final_explanation", report.FinalExplanation},
		{"summary", "recommendation", report.Recommendation},
	}

	for _, strength := range report.Strengths {
		records = append(records, []string{"summary", "strength", strength})
	}
	for _, weakness := range report.Weaknesses {
		records = append(records, []string{"summary", "weakness", weakness})
	}

	sections := []models.SectionEvaluation{
		report.RequirementsEvaluation,
		report.ResponsibilitiesEvaluation,
		report.QualificationsEvaluation,
	}
	for _, section := range sections {
		records = append(records,
			[]string{section.SectionName, "similarity_score", formatScore(section.SimilarityScore)},
			[]string{section.SectionName, "explanation", section.Explanation})

		for _, match := range section.KeyMatches {
			records = append(records, []string{section.SectionName, "key_match", match})
		}
		for _, gap := range section.Gaps {
			records = append(records, []string{section.SectionName, "gap", gap})
		}
	}

	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv records: %w", err)
	}

	return nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
