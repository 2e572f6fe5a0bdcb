package services

import (
	"testing"

	"recruitkit/resume-screener/internal/models"
)

func sampleCV() *models.CV {
	return &models.CV{
		Education: []models.Education{
			{School: "MIT", Degree: "BSc", FieldOfStudy: "Computer Science", StartDate: "2015", EndDate: "2019"},
		},
		Skills: []models.Skill{{Name: "Go"}, {Name: "PostgreSQL"}},
		Experience: []models.Experience{
			{Company: "Acme", Position: "Backend Engineer", StartDate: "2019", EndDate: "2023", Description: "Built billing services."},
		},
		Certifications: []models.Certification{{Name: "CKA"}},
		Projects: []models.Project{
			{Name: "ledger", Description: "Double-entry bookkeeping library."},
		},
	}
}

func TestFlattenCVJoinRules(t *testing.T) {
	flat := FlattenCV(sampleCV())

	cases := map[string]string{
		models.SectionEducation:      "BSc in Computer Science from MIT (2015 - 2019)",
		models.SectionSkills:         "Go PostgreSQL",
		models.SectionExperience:     "Backend Engineer at Acme. Built billing services.",
		models.SectionCertifications: "CKA",
		models.SectionProjects:       "ledger. Double-entry bookkeeping library.",
	}

	for section, want := range cases {
		if got := flat[section]; got != want {
			t.Errorf("section %q: got %q, want %q", section, got, want)
		}
	}
}

func TestFlattenCVEmptySections(t *testing.T) {
	flat := FlattenCV(&models.CV{})

	for _, section := range models.CVSections() {
		got, ok := flat[section]
		if !ok {
			t.Fatalf("section %q missing from flattened map", section)
		}
		if got != "" {
			t.Errorf("empty section %q flattened to %q, want empty string", section, got)
		}
	}
}

func TestFlattenCVDeterministic(t *testing.T) {
	cv := sampleCV()

	first := FlattenCV(cv)
	for i := 0; i < 10; i++ {
		again := FlattenCV(cv)
		for section, want := range first {
			if again[section] != want {
				t.Fatalf("run %d: section %q changed from %q to %q", i, section, want, again[section])
			}
		}
	}
}

func TestFlattenCVPreservesItemOrder(t *testing.T) {
	cv := &models.CV{
		Skills: []models.Skill{{Name: "Kubernetes"}, {Name: "Go"}, {Name: "Kafka"}},
	}

	if got := FlattenCV(cv)[models.SectionSkills]; got != "Kubernetes Go Kafka" {
		t.Fatalf("skills joined as %q, want insertion order preserved", got)
	}
}

func TestFlattenJobPosting(t *testing.T) {
	jd := &models.JobPosting{
		Requirements:     []models.JobItem{{Name: "5 years backend experience"}, {Name: "CS degree"}},
		Responsibilities: []models.JobItem{{Name: "Own the payments pipeline"}},
	}

	flat := FlattenJobPosting(jd)

	if got := flat[models.SectionRequirements]; got != "5 years backend experience CS degree" {
		t.Errorf("requirements: got %q", got)
	}
	if got := flat[models.SectionResponsibilities]; got != "Own the payments pipeline" {
		t.Errorf("responsibilities: got %q", got)
	}
	if got := flat[models.SectionQualifications]; got != "" {
		t.Errorf("empty qualifications flattened to %q, want empty string", got)
	}
}
