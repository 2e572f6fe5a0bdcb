package services

import (
	"fmt"
	"strings"

	"recruitkit/resume-screener/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVExtractionInstruction creates the system instruction for extracting
// one CV section.
func (pb *PromptBuilder) BuildCVExtractionInstruction(section string) string {
	return fmt.Sprintf(`You are a resume parsing engine.
Extract ONLY the "%s" entries from the candidate CV provided by the user.
Return a JSON array matching the requested schema.
If the CV contains no %s information, return an empty array.
Do not invent entries, do not add commentary, do not include any other section.`, section, section)
}

// BuildJobExtractionInstruction creates the system instruction for extracting
// one job-description section.
func (pb *PromptBuilder) BuildJobExtractionInstruction(section string) string {
	return fmt.Sprintf(`You are a job posting parsing engine.
Extract ONLY the "%s" items from the job description provided by the user.
Each item is a single short named statement.
Return a JSON array matching the requested schema.
If the job description contains no %s, return an empty array.
Do not invent items, do not add commentary, do not include any other section.`, section, section)
}

// BuildExtractionPrompt creates the user message for a section extraction call.
func (pb *PromptBuilder) BuildExtractionPrompt(contentType, content, section string) string {
	return fmt.Sprintf("%s Content:\n%s\n\nExtract %s.", contentType, content, section)
}

// BuildJudgeSystemInstruction is the evaluator mandate for the qualitative
// judge. The judge never sees the numeric similarity scores.
func (pb *PromptBuilder) BuildJudgeSystemInstruction() string {
	return `You are an expert technical recruiter.
Analyze the Candidate's CV against the Job Description based ONLY on the text provided.

Your goal: find the truth.
- If the CV mentions a skill (e.g., 'Java'), it is a MATCH, even if it is just listed in skills.
- If a skill is explicitly missing, it is a GAP.
- Do not be biased by the length of the CV. Look for keywords and semantic meaning.`
}

// BuildJudgePrompt creates the user message for the qualitative judgment call.
func (pb *PromptBuilder) BuildJudgePrompt(cvSummary, jdSummary string) string {
	return fmt.Sprintf(`%s

%s

Based on the text above, generate a JSON evaluation in this format:
{
    "decision": "PASS" | "REVIEW" | "REJECT",
    "requirements_evaluation": {
        "explanation": "Brief assessment of technical requirements fit.",
        "key_matches": ["list of matching skills/experience found"],
        "gaps": ["list of missing requirements"]
    },
    "responsibilities_evaluation": {
        "explanation": "Assessment of ability to perform daily tasks.",
        "key_matches": ["relevant experience points"],
        "gaps": ["missing experience areas"]
    },
    "qualifications_evaluation": {
        "explanation": "Assessment of certifications and soft skills.",
        "key_matches": ["relevant qualifications found"],
        "gaps": ["missing qualifications"]
    },
    "final_explanation": "A summary of the candidate's overall fit.",
    "recommendation": "A professional hiring recommendation sentence."
}`, jdSummary, cvSummary)
}

// FormatCVSummary renders a CV as a fixed, deterministic multi-line summary
// for the judge. Section and field order match the flattener's rules.
func (pb *PromptBuilder) FormatCVSummary(cv *models.CV) string {
	var b strings.Builder
	b.WriteString("=== CANDIDATE CV ===\n")

	if len(cv.Education) > 0 {
		b.WriteString("EDUCATION:\n")
		for _, edu := range cv.Education {
			fmt.Fprintf(&b, "- %s in %s from %s (%s - %s)\n",
				edu.Degree, edu.FieldOfStudy, edu.School, edu.StartDate, edu.EndDate)
		}
	}

	if len(cv.Skills) > 0 {
		names := make([]string, 0, len(cv.Skills))
		for _, s := range cv.Skills {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, "SKILLS: %s\n", strings.Join(names, ", "))
	}

	if len(cv.Experience) > 0 {
		b.WriteString("EXPERIENCE:\n")
		for _, exp := range cv.Experience {
			fmt.Fprintf(&b, "- %s at %s (%s - %s): %s\n",
				exp.Position, exp.Company, exp.StartDate, exp.EndDate, exp.Description)
		}
	}

	if len(cv.Certifications) > 0 {
		b.WriteString("CERTIFICATIONS:\n")
		for _, cert := range cv.Certifications {
			fmt.Fprintf(&b, "- %s\n", cert.Name)
		}
	}

	if len(cv.Projects) > 0 {
		b.WriteString("PROJECTS:\n")
		for _, proj := range cv.Projects {
			fmt.Fprintf(&b, "- %s: %s\n", proj.Name, proj.Description)
		}
	}

	return b.String()
}

// FormatJobSummary renders a job posting as a fixed, deterministic multi-line
// summary for the judge.
func (pb *PromptBuilder) FormatJobSummary(jd *models.JobPosting) string {
	var b strings.Builder
	b.WriteString("=== JOB DESCRIPTION ===\n")

	writeItems := func(header string, items []models.JobItem) {
		if len(items) == 0 {
			return
		}
		b.WriteString(header + ":\n")
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item.Name)
		}
	}

	writeItems("REQUIREMENTS", jd.Requirements)
	writeItems("RESPONSIBILITIES", jd.Responsibilities)
	writeItems("QUALIFICATIONS", jd.Qualifications)

	return b.String()
}
