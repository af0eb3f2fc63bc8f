package model

import cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"

// UploadResult is the response body for a resume upload: the parsing
// outcome and the derived summary fields, never a 5xx even when parsing
// itself failed.
type UploadResult struct {
	ParsingStatus           cpmodel.ParsingStatus `json:"parsingStatus"`
	ParsingDurationMs       int64                 `json:"parsingDurationMs"`
	Skills                  []string              `json:"skills"`
	Education               []cpmodel.Education   `json:"education"`
	ExperienceMonths        int                   `json:"experienceMonths"`
	ProjectsCount           int                   `json:"projectsCount"`
	ResumeCompletenessScore float64               `json:"resumeCompletenessScore"`
	Warning                 string                `json:"warning,omitempty"`
}
