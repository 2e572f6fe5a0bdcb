package services

import (
	"fmt"
	"strings"

	"recruitkit/resume-screener/internal/models"
)

// The flatteners project each structured section into a single plain-text
// string for the similarity scorer. They are pure: same input, same output,
// byte for byte. Join rules are fixed:
//
//	education      -> "{degree} in {field} from {school} ({start} - {end})"
//	skills         -> item name
//	experience     -> "{position} at {company}. {description}"
//	certifications -> item name
//	projects       -> "{name}. {description}"
//	job sections   -> item name
//
// Items are joined by a single space in insertion order. An empty section
// flattens to an empty string, never an error.

// FlattenCV produces the flattened section map of a structured CV.
func FlattenCV(cv *models.CV) map[string]string {
	education := make([]string, 0, len(cv.Education))
	for _, edu := range cv.Education {
		education = append(education, fmt.Sprintf("%s in %s from %s (%s - %s)",
			edu.Degree, edu.FieldOfStudy, edu.School, edu.StartDate, edu.EndDate))
	}

	skills := make([]string, 0, len(cv.Skills))
	for _, s := range cv.Skills {
		skills = append(skills, s.Name)
	}

	experience := make([]string, 0, len(cv.Experience))
	for _, exp := range cv.Experience {
		experience = append(experience, fmt.Sprintf("%s at %s. %s",
			exp.Position, exp.Company, exp.Description))
	}

	certifications := make([]string, 0, len(cv.Certifications))
	for _, cert := range cv.Certifications {
		certifications = append(certifications, cert.Name)
	}

	projects := make([]string, 0, len(cv.Projects))
	for _, proj := range cv.Projects {
		projects = append(projects, fmt.Sprintf("%s. %s", proj.Name, proj.Description))
	}

	return map[string]string{
		models.SectionEducation:      strings.Join(education, " "),
		models.SectionSkills:         strings.Join(skills, " "),
		models.SectionExperience:     strings.Join(experience, " "),
		models.SectionCertifications: strings.Join(certifications, " "),
		models.SectionProjects:       strings.Join(projects, " "),
	}
}

// FlattenJobPosting produces the flattened section map of a structured job
// posting.
func FlattenJobPosting(jd *models.JobPosting) map[string]string {
	return map[string]string{
		models.SectionRequirements:     joinItems(jd.Requirements),
		models.SectionResponsibilities: joinItems(jd.Responsibilities),
		models.SectionQualifications:   joinItems(jd.Qualifications),
	}
}

func joinItems(items []models.JobItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return strings.Join(names, " ")
}
