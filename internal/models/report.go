package models

// Fixed résumé section keys, in display order.
const (
	SectionContact    = "contact"
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
)

var SectionKeys = []string{
	SectionContact,
	SectionEducation,
	SectionExperience,
	SectionSkills,
	SectionProjects,
}

// SectionLabels are the human readable names used in rendered reports.
var SectionLabels = map[string]string{
	SectionContact:    "Contact Information",
	SectionEducation:  "Education Section",
	SectionExperience: "Experience/Work History",
	SectionSkills:     "Skills Section",
	SectionProjects:   "Projects Section",
}

// AnalysisReport is the validated ATS analysis of a résumé. Every list is
// non-nil and Sections always holds exactly the keys in SectionKeys.
type AnalysisReport struct {
	Score           int             `json:"score"`
	Summary         string          `json:"summary"`
	Strengths       []string        `json:"strengths"`
	MissingKeywords []string        `json:"missingKeywords"`
	Improvements    []string        `json:"improvements"`
	Sections        map[string]bool `json:"sections"`
	WordCount       int             `json:"wordCount"`
	FoundVerbs      []string        `json:"foundVerbs"`
}

// NewSections returns a section map with every fixed key set to false.
func NewSections() map[string]bool {
	sections := make(map[string]bool, len(SectionKeys))
	for _, key := range SectionKeys {
		sections[key] = false
	}
	return sections
}
