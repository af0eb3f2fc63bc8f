package model

// SkillLevel is the proficiency level a candidate claims for a skill.
type SkillLevel string

const (
	Beginner     SkillLevel = "Beginner"
	Intermediate SkillLevel = "Intermediate"
	Advanced     SkillLevel = "Advanced"
)

// ExperienceType classifies a single experience entry.
type ExperienceType string

const (
	ExperienceJob        ExperienceType = "Job"
	ExperienceInternship ExperienceType = "Internship"
	ExperienceFreelance  ExperienceType = "Freelance"
)

// ProjectComplexity is the difficulty tier of a project entry.
type ProjectComplexity string

const (
	ComplexityLow    ProjectComplexity = "Low"
	ComplexityMedium ProjectComplexity = "Medium"
	ComplexityHigh   ProjectComplexity = "High"
)

// UserType classifies the candidate's current standing, when known.
type UserType string

const (
	UserTypeFresher             UserType = "Fresher"
	UserTypeStudent             UserType = "Student"
	UserTypeWorkingProfessional UserType = "Working Professional"
)

// Skill is a single named proficiency. Names are unique case-insensitively
// within a CandidateProfile.
type Skill struct {
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

// Education is a single degree/program entry.
type Education struct {
	Degree      string   `json:"degree"`
	Field       *string  `json:"field,omitempty"`
	Institution *string  `json:"institution,omitempty"`
	Year        *int     `json:"year,omitempty"`
	CGPA        *float64 `json:"cgpa,omitempty"`
}

// Experience is a single role entry.
type Experience struct {
	Role           string         `json:"role"`
	Company        *string        `json:"company,omitempty"`
	DurationMonths *int           `json:"durationMonths,omitempty"`
	Type           ExperienceType `json:"type"`
}

// Project is a single project entry.
type Project struct {
	Title       string            `json:"title"`
	TechStack   []string          `json:"techStack"`
	Description *string           `json:"description,omitempty"`
	Complexity  ProjectComplexity `json:"complexity"`
}

// CandidateProfile is built fresh on every request from storage reads and is
// never cached or reused across requests. See Extract in modules/features
// for how it is reduced to a feature vector.
type CandidateProfile struct {
	UserID           string       `json:"userId"`
	UserType         *UserType    `json:"userType,omitempty"`
	Skills           []Skill      `json:"skills"`
	Education        []Education  `json:"education"`
	ExperienceMonths int          `json:"experienceMonths"`
	Experience       []Experience `json:"experience"`
	ProjectsCount    int          `json:"projectsCount"`
	Projects         []Project    `json:"projects"`
	CGPA             float64      `json:"cgpa"`
}

// IsEmpty reports whether the profile carries no signal at all. The
// CandidateIncomplete precondition checked by the orchestrator examines
// the derived feature vector instead.
func (p *CandidateProfile) IsEmpty() bool {
	return len(p.Skills) == 0 && p.ExperienceMonths == 0 && len(p.Projects) == 0
}
