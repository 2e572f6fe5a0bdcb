package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"recruitkit/resume-screener/internal/models"
)

// JudgmentParseError signals that the judge's response could not be parsed
// into the expected shape. Unlike the other pipeline errors it is recoverable:
// the fusion engine degrades it to the unknown-label row instead of aborting.
type JudgmentParseError struct {
	Err error
}

func (e *JudgmentParseError) Error() string {
	return fmt.Sprintf("failed to parse judgment response: %v", e.Err)
}

func (e *JudgmentParseError) Unwrap() error {
	return e.Err
}

// JudgmentService delivers an independent qualitative assessment of a CV
// against a job posting. Implementations must reason from text only: the
// numeric similarity scores are never shown to the judge, which keeps the
// two signal sources independent.
type JudgmentService interface {
	Judge(ctx context.Context, cv *models.CV, jd *models.JobPosting) (*models.Judgment, error)
}

type judgeClient interface {
	GenerateJSONWithRetry(ctx context.Context, system, prompt string, schema *genai.Schema, temperature float32, maxRetries int) (string, error)
}

type qualitativeJudge struct {
	client     judgeClient
	prompts    *PromptBuilder
	maxRetries int
	logger     *zap.Logger
}

func NewQualitativeJudge(client judgeClient, maxRetries int, logger *zap.Logger) JudgmentService {
	return &qualitativeJudge{
		client:     client,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Judge implements JudgmentService.
func (j *qualitativeJudge) Judge(ctx context.Context, cv *models.CV, jd *models.JobPosting) (*models.Judgment, error) {
	cvSummary := j.prompts.FormatCVSummary(cv)
	jdSummary := j.prompts.FormatJobSummary(jd)

	system := j.prompts.BuildJudgeSystemInstruction()
	prompt := j.prompts.BuildJudgePrompt(cvSummary, jdSummary)

	j.logger.Debug("requesting qualitative judgment",
		zap.Int("prompt_length", len(prompt)))

	response, err := j.client.GenerateJSONWithRetry(ctx, system, prompt, nil, 0.1, j.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("judgment request failed: %w", err)
	}

	return parseJudgment(response)
}

// parseJudgment decodes the judge's JSON response. Missing fields become
// empty strings and collections; only a response that is not JSON at all
// produces a JudgmentParseError.
func parseJudgment(response string) (*models.Judgment, error) {
	cleaned := extractJSON(response)

	var judgment models.Judgment
	if err := json.Unmarshal([]byte(cleaned), &judgment); err != nil {
		return nil, &JudgmentParseError{Err: err}
	}

	normalizeSection(&judgment.RequirementsEvaluation)
	normalizeSection(&judgment.ResponsibilitiesEvaluation)
	normalizeSection(&judgment.QualificationsEvaluation)

	return &judgment, nil
}

func normalizeSection(section *models.SectionEvaluation) {
	if section.KeyMatches == nil {
		section.KeyMatches = []string{}
	}
	if section.Gaps == nil {
		section.Gaps = []string{}
	}
}

// extractJSON strips markdown code fences and surrounding prose from a model
// response that should contain a JSON object or array.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj &&
		(startArr == -1 || startObj < startArr) {
		return text[startObj : endObj+1]
	}
	if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return strings.TrimSpace(text)
}
