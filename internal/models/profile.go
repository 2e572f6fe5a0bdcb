package models

// Structured documents produced by the section extractor. Every section slice
// is always non-nil after extraction; an absent section is an empty slice,
// never a missing key.

type Education struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

type Skill struct {
	Name string `json:"name"`
}

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type Certification struct {
	Name string `json:"name"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CV is the structured form of a candidate's resume.
type CV struct {
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Experience     []Experience    `json:"experience"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
}

// JobItem is a single named entry in a job-posting section.
type JobItem struct {
	Name string `json:"name"`
}

// JobPosting is the structured form of a job description.
type JobPosting struct {
	Requirements     []JobItem `json:"requirements"`
	Responsibilities []JobItem `json:"responsibilities"`
	Qualifications   []JobItem `json:"qualifications"`
}

// CV section names, in extraction order.
const (
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionExperience     = "experience"
	SectionCertifications = "certifications"
	SectionProjects       = "projects"
)

// Job-posting section names, in extraction order.
const (
	SectionRequirements     = "requirements"
	SectionResponsibilities = "responsibilities"
	SectionQualifications   = "qualifications"
)

func CVSections() []string {
	return []string{
		SectionEducation,
		SectionSkills,
		SectionExperience,
		SectionCertifications,
		SectionProjects,
	}
}

func JobSections() []string {
	return []string{
		SectionRequirements,
		SectionResponsibilities,
		SectionQualifications,
	}
}
