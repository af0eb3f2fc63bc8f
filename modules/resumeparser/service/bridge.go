package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	"github.com/arjunmehta/shortlist-engine/internal/platform/subprocess"
	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	"go.uber.org/zap"
)

// parserWireFormat is the flat JSON the parser subprocess writes to
// stdout: the ParsedResume fields plus an explicit status the parser
// assigns based on how much of the document it could extract.
type parserWireFormat struct {
	Status               cpmodel.ParsingStatus `json:"status"`
	TechnicalSkills      []string              `json:"technicalSkills"`
	ProgrammingLanguages []string              `json:"programmingLanguages"`
	FrameworksLibraries  []string              `json:"frameworksLibraries"`
	ToolsPlatforms       []string              `json:"toolsPlatforms"`
	Databases            []string              `json:"databases"`
	SoftSkills           []string              `json:"softSkills"`
	ExperienceMonths     int                   `json:"experienceMonths"`
	Experience           []cpmodel.Experience  `json:"experience"`
	Projects             []cpmodel.Project     `json:"projects"`
	Education            []cpmodel.Education   `json:"education"`
	CGPA                 *float64              `json:"cgpa,omitempty"`
	CompletenessScore    float64               `json:"resumeCompletenessScore"`
}

// Bridge runs the resume parser subprocess fresh for every upload: a
// one-shot spawn, one argv (the file path), one line of JSON back. It
// never reuses state between calls, and a bridge-level failure (spawn
// error, timeout, unparseable stdout) is folded into an empty-defaults
// FAILED result rather than surfaced as an error, so a bad resume never
// blocks the upload path.
type Bridge struct {
	parserPath string
	timeout    time.Duration
	log        *logger.Logger
}

func NewBridge(parserPath string, timeout time.Duration, log *logger.Logger) *Bridge {
	return &Bridge{parserPath: parserPath, timeout: timeout, log: log}
}

func (b *Bridge) Parse(ctx context.Context, filePath string) (*cpmodel.ParsedResume, cpmodel.ParsingStatus, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	line, err := subprocess.Call(callCtx, b.log, b.parserPath, []string{filePath}, []byte("{}"))
	if err != nil {
		b.log.Warn("resume parser bridge call failed, proceeding with empty defaults",
			zap.String("filePath", filePath), zap.Error(err))
		return emptyParsedResume(), cpmodel.ParsingFailed, nil
	}

	var wire parserWireFormat
	if err := json.Unmarshal(line, &wire); err != nil {
		b.log.Warn("resume parser produced unparseable output, proceeding with empty defaults",
			zap.String("filePath", filePath), zap.Error(err))
		return emptyParsedResume(), cpmodel.ParsingFailed, nil
	}

	status := wire.Status
	if status == "" {
		status = cpmodel.ParsingSuccess
	}

	resume := &cpmodel.ParsedResume{
		TechnicalSkills:      wire.TechnicalSkills,
		ProgrammingLanguages: wire.ProgrammingLanguages,
		FrameworksLibraries:  wire.FrameworksLibraries,
		ToolsPlatforms:       wire.ToolsPlatforms,
		Databases:            wire.Databases,
		SoftSkills:           wire.SoftSkills,
		ExperienceMonths:     wire.ExperienceMonths,
		Experience:           wire.Experience,
		Projects:             wire.Projects,
		Education:            wire.Education,
		CGPA:                 wire.CGPA,
		CompletenessScore:    wire.CompletenessScore,
	}

	return resume, status, nil
}

func emptyParsedResume() *cpmodel.ParsedResume {
	return &cpmodel.ParsedResume{}
}
