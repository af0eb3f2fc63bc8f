package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	jobmatch "github.com/arjunmehta/shortlist-engine/modules/jobmatch"
	"github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
	"github.com/arjunmehta/shortlist-engine/modules/jobmatch/ports"
	"go.uber.org/zap"
)

// JobFetcher resolves a job by id into its canonical, hashed, fully
// normalized form. Every call re-reads storage: the orchestrator's
// per-request freshness guarantee depends on this never caching.
type JobFetcher struct {
	repo ports.JobRepository
	log  *logger.Logger
}

func NewJobFetcher(repo ports.JobRepository, log *logger.Logger) *JobFetcher {
	return &JobFetcher{repo: repo, log: log}
}

// Fetch resolves jobID into model.Resolved, composing canonical JD text,
// hashing it, and extracting+persisting a required-skills list when the
// job row does not already carry one.
func (f *JobFetcher) Fetch(ctx context.Context, jobID string) (*model.Resolved, error) {
	job, err := f.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	jdText := canonicalJDText(job)
	if strings.TrimSpace(jdText) == "" {
		return nil, model.ErrJDEmpty
	}

	skills := job.Skills
	if len(skills) == 0 {
		skills = extractRequiredSkills(jdText)
		if len(skills) > 0 {
			if err := f.repo.PersistSkills(ctx, jobID, skills); err != nil {
				f.log.Warn("failed to persist extracted job skills",
					zap.String("jobId", jobID), zap.Error(err))
			}
		}
	}

	hash := sha256.Sum256([]byte(jdText))
	jdHash := hex.EncodeToString(hash[:])[:16]

	return &model.Resolved{
		ID:              job.ID,
		Title:           job.Title,
		CompanyName:     job.CompanyName,
		JDText:          jdText,
		JDHash:          jdHash,
		Skills:          skills,
		ExperienceLevel: job.ExperienceLevel,
		Location:        resolveLocation(job),
		IsRemote:        job.IsRemote,
	}, nil
}

// canonicalJDText resolves JD text in the order jobDescription field,
// description field, then a composition from title/skills/level.
func canonicalJDText(job *model.JobRecord) string {
	if job.JobDescription != nil && strings.TrimSpace(*job.JobDescription) != "" {
		return *job.JobDescription
	}
	if job.Description != nil && strings.TrimSpace(*job.Description) != "" {
		return *job.Description
	}
	return composeJDText(job)
}

func composeJDText(job *model.JobRecord) string {
	var b strings.Builder
	b.WriteString(job.Title)
	if len(job.Skills) > 0 {
		b.WriteString(". Required skills: ")
		b.WriteString(strings.Join(job.Skills, ", "))
	}
	if job.ExperienceLevel != nil && strings.TrimSpace(*job.ExperienceLevel) != "" {
		b.WriteString(fmt.Sprintf(". Experience level: %s", *job.ExperienceLevel))
	}
	return strings.TrimSpace(b.String())
}

func resolveLocation(job *model.JobRecord) string {
	if job.IsRemote {
		return "Remote"
	}
	parts := make([]string, 0, 3)
	if job.City != nil && *job.City != "" {
		parts = append(parts, *job.City)
	}
	if job.State != nil && *job.State != "" {
		parts = append(parts, *job.State)
	}
	if job.Country != nil && *job.Country != "" {
		parts = append(parts, *job.Country)
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	if job.JobLocation != nil {
		return *job.JobLocation
	}
	return ""
}

// extractRequiredSkills keyword-matches the fixed technical vocabulary
// against jdText, case-insensitively, preserving vocabulary order.
func extractRequiredSkills(jdText string) []string {
	lower := strings.ToLower(jdText)
	var matched []string
	for _, term := range jobmatch.Vocabulary() {
		if strings.Contains(lower, strings.ToLower(term)) {
			matched = append(matched, term)
		}
	}
	return matched
}
