package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"recruitkit/resume-screener/internal/models"
)

// extractionClient is the slice of GeminiService the extractor consumes.
type extractionClient interface {
	GenerateJSONWithRetry(ctx context.Context, system, prompt string, schema *genai.Schema, temperature float32, maxRetries int) (string, error)
}

// ExtractionProfile is the strategy for one document kind. CV and job-posting
// extraction share the per-section request flow and differ only in the
// instruction text, the output schema, and the content-type label.
type ExtractionProfile interface {
	ContentTypeLabel() string
	Sections() []string
	InstructionFor(section string) string
	SectionSchema(section string) *genai.Schema
}

// SectionExtractor issues one structured-extraction request per declared
// section. Any failed section aborts the whole document: there is no
// partial-document output.
type SectionExtractor struct {
	client     extractionClient
	prompts    *PromptBuilder
	maxRetries int
	logger     *zap.Logger
}

func NewSectionExtractor(client extractionClient, maxRetries int, logger *zap.Logger) *SectionExtractor {
	return &SectionExtractor{
		client:     client,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// ExtractCV extracts the five CV sections from pre-cleaned plain text.
func (e *SectionExtractor) ExtractCV(ctx context.Context, content string) (*models.CV, error) {
	profile := &cvProfile{prompts: e.prompts}

	parts, err := e.extractAll(ctx, profile, content)
	if err != nil {
		return nil, err
	}

	cv := &models.CV{
		Education:      []models.Education{},
		Skills:         []models.Skill{},
		Experience:     []models.Experience{},
		Certifications: []models.Certification{},
		Projects:       []models.Project{},
	}

	decoders := map[string]any{
		models.SectionEducation:      &cv.Education,
		models.SectionSkills:         &cv.Skills,
		models.SectionExperience:     &cv.Experience,
		models.SectionCertifications: &cv.Certifications,
		models.SectionProjects:       &cv.Projects,
	}

	for section, target := range decoders {
		if err := decodeSection(profile, section, parts[section], target); err != nil {
			return nil, err
		}
	}

	return cv, nil
}

// ExtractJob extracts the three job-posting sections from pre-cleaned plain text.
func (e *SectionExtractor) ExtractJob(ctx context.Context, content string) (*models.JobPosting, error) {
	profile := &jobProfile{prompts: e.prompts}

	parts, err := e.extractAll(ctx, profile, content)
	if err != nil {
		return nil, err
	}

	jd := &models.JobPosting{
		Requirements:     []models.JobItem{},
		Responsibilities: []models.JobItem{},
		Qualifications:   []models.JobItem{},
	}

	decoders := map[string]any{
		models.SectionRequirements:     &jd.Requirements,
		models.SectionResponsibilities: &jd.Responsibilities,
		models.SectionQualifications:   &jd.Qualifications,
	}

	for section, target := range decoders {
		if err := decodeSection(profile, section, parts[section], target); err != nil {
			return nil, err
		}
	}

	return jd, nil
}

func (e *SectionExtractor) extractAll(ctx context.Context, profile ExtractionProfile, content string) (map[string]json.RawMessage, error) {
	parts := make(map[string]json.RawMessage, len(profile.Sections()))

	for _, section := range profile.Sections() {
		raw, err := e.extractSection(ctx, profile, content, section)
		if err != nil {
			return nil, err
		}
		parts[section] = raw
	}

	return parts, nil
}

func (e *SectionExtractor) extractSection(ctx context.Context, profile ExtractionProfile, content, section string) (json.RawMessage, error) {
	system := profile.InstructionFor(section)
	prompt := e.prompts.BuildExtractionPrompt(profile.ContentTypeLabel(), content, section)

	e.logger.Debug("extracting section",
		zap.String("content_type", profile.ContentTypeLabel()),
		zap.String("section", section),
		zap.Int("content_length", len(content)))

	response, err := e.client.GenerateJSONWithRetry(ctx, system, prompt, profile.SectionSchema(section), 0, e.maxRetries)
	if err != nil {
		return nil, &ExtractionError{ContentType: profile.ContentTypeLabel(), Section: section, Err: err}
	}

	cleaned := extractJSON(response)
	if !json.Valid([]byte(cleaned)) {
		return nil, &ExtractionError{
			ContentType: profile.ContentTypeLabel(),
			Section:     section,
			Err:         fmt.Errorf("response is not valid JSON"),
		}
	}

	return json.RawMessage(cleaned), nil
}

func decodeSection(profile ExtractionProfile, section string, raw json.RawMessage, target any) error {
	if len(raw) == 0 || string(raw) == "null" {
		// Absent section stays an empty slice, never a missing key.
		return nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return &ExtractionError{
			ContentType: profile.ContentTypeLabel(),
			Section:     section,
			Err:         fmt.Errorf("response does not match section schema: %w", err),
		}
	}

	return nil
}

type cvProfile struct {
	prompts *PromptBuilder
}

func (p *cvProfile) ContentTypeLabel() string { return "CV" }

func (p *cvProfile) Sections() []string { return models.CVSections() }

func (p *cvProfile) InstructionFor(section string) string {
	return p.prompts.BuildCVExtractionInstruction(section)
}

func (p *cvProfile) SectionSchema(section string) *genai.Schema {
	switch section {
	case models.SectionEducation:
		return recordArraySchema("school", "degree", "field_of_study", "start_date", "end_date")
	case models.SectionExperience:
		return recordArraySchema("company", "position", "start_date", "end_date", "description")
	case models.SectionProjects:
		return recordArraySchema("name", "description")
	default: // skills, certifications
		return recordArraySchema("name")
	}
}

type jobProfile struct {
	prompts *PromptBuilder
}

func (p *jobProfile) ContentTypeLabel() string { return "Job Description" }

func (p *jobProfile) Sections() []string { return models.JobSections() }

func (p *jobProfile) InstructionFor(section string) string {
	return p.prompts.BuildJobExtractionInstruction(section)
}

func (p *jobProfile) SectionSchema(string) *genai.Schema {
	return recordArraySchema("name")
}

// recordArraySchema builds the response schema for an array of flat string
// records with the given required fields.
func recordArraySchema(fields ...string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(fields))
	for _, field := range fields {
		props[field] = &genai.Schema{Type: genai.TypeString}
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
			Required:   fields,
		},
	}
}
