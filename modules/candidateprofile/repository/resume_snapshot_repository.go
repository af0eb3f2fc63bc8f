package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// parsedSkillsJSON is the jsonb shape persisted in resume_parsed_skills:
// every skill bucket the parser produces, kept distinct so downstream
// explanation code never has to re-derive which bucket a skill came from.
type parsedSkillsJSON struct {
	TechnicalSkills      []string `json:"technicalSkills"`
	ProgrammingLanguages []string `json:"programmingLanguages"`
	FrameworksLibraries  []string `json:"frameworksLibraries"`
	ToolsPlatforms       []string `json:"toolsPlatforms"`
	Databases            []string `json:"databases"`
	SoftSkills           []string `json:"softSkills"`
}

// ResumeSnapshotRepository implements ports.ResumeSnapshotRepository.
type ResumeSnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewResumeSnapshotRepository(pool *pgxpool.Pool) *ResumeSnapshotRepository {
	return &ResumeSnapshotRepository{pool: pool}
}

func (r *ResumeSnapshotRepository) GetSnapshot(ctx context.Context, userID string) (*model.ResumeSnapshot, error) {
	var (
		skillsRaw         []byte
		educationRaw      []byte
		experienceMonths  *int
		projectsCount     *int
		completenessScore *float64
		cgpa              *float64
		parsingStatus     *string
		parsedAt          *time.Time
	)

	err := r.pool.QueryRow(ctx, `
		SELECT resume_parsed_skills, resume_experience_months, resume_projects_count,
		       resume_education, resume_completeness_score, resume_parsing_status, resume_parsed_at
		FROM users WHERE id = $1
	`, userID).Scan(&skillsRaw, &experienceMonths, &projectsCount, &educationRaw, &completenessScore, &parsingStatus, &parsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	snapshot := &model.ResumeSnapshot{ParsedAt: parsedAt}
	if parsingStatus != nil {
		snapshot.ParsingStatus = model.ParsingStatus(*parsingStatus)
	}
	if projectsCount != nil {
		snapshot.ProjectsCount = *projectsCount
	}
	if snapshot.ParsingStatus == "" {
		return snapshot, nil
	}

	parsed := &model.ParsedResume{CGPA: cgpa}
	if experienceMonths != nil {
		parsed.ExperienceMonths = *experienceMonths
	}
	if completenessScore != nil {
		parsed.CompletenessScore = *completenessScore
	}
	if len(skillsRaw) > 0 {
		var buckets parsedSkillsJSON
		if err := json.Unmarshal(skillsRaw, &buckets); err != nil {
			return nil, err
		}
		parsed.TechnicalSkills = buckets.TechnicalSkills
		parsed.ProgrammingLanguages = buckets.ProgrammingLanguages
		parsed.FrameworksLibraries = buckets.FrameworksLibraries
		parsed.ToolsPlatforms = buckets.ToolsPlatforms
		parsed.Databases = buckets.Databases
		parsed.SoftSkills = buckets.SoftSkills
	}
	if len(educationRaw) > 0 {
		if err := json.Unmarshal(educationRaw, &parsed.Education); err != nil {
			return nil, err
		}
	}
	snapshot.Parsed = parsed
	return snapshot, nil
}

// ReplaceProfile runs the atomic REPLACE described in the resume upload
// contract: lock the user's row, replace the projects/experience rows this
// service shares with the external user module, reconcile skills against
// the prior resume snapshot (see reconcileSkills), update the
// resume-derived columns, and purge cached predictions so later requests
// recompute from scratch.
func (r *ResumeSnapshotRepository) ReplaceProfile(ctx context.Context, userID string, resume *model.ParsedResume, status model.ParsingStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var priorSkillsRaw []byte
	if err := tx.QueryRow(ctx, `SELECT resume_parsed_skills FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&priorSkillsRaw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrUserNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM experience WHERE user_id = $1`, userID); err != nil {
		return err
	}

	if err := reconcileSkills(ctx, tx, userID, priorSkillsRaw, resume); err != nil {
		return err
	}
	for _, p := range resume.Projects {
		complexity := p.Complexity
		if complexity == "" {
			complexity = model.ComplexityMedium
		}
		if _, err := tx.Exec(ctx, `INSERT INTO projects (user_id, title, tech_stack, description, complexity) VALUES ($1, $2, $3, $4, $5)`,
			userID, p.Title, p.TechStack, p.Description, complexity); err != nil {
			return err
		}
	}
	for _, e := range resume.Experience {
		if _, err := tx.Exec(ctx, `INSERT INTO experience (user_id, role, company, duration_months, type) VALUES ($1, $2, $3, $4, $5)`,
			userID, e.Role, e.Company, e.DurationMonths, e.Type); err != nil {
			return err
		}
	}

	skillsJSON, err := json.Marshal(parsedSkillsJSON{
		TechnicalSkills:      resume.TechnicalSkills,
		ProgrammingLanguages: resume.ProgrammingLanguages,
		FrameworksLibraries:  resume.FrameworksLibraries,
		ToolsPlatforms:       resume.ToolsPlatforms,
		Databases:            resume.Databases,
		SoftSkills:           resume.SoftSkills,
	})
	if err != nil {
		return err
	}
	educationJSON, err := json.Marshal(resume.Education)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET
			resume_parsed_skills = $2,
			resume_experience_months = $3,
			resume_projects_count = $4,
			resume_education = $5,
			resume_completeness_score = $6,
			resume_parsing_status = $7,
			resume_parsed_at = now()
		WHERE id = $1
	`, userID, skillsJSON, resume.ExperienceMonths, len(resume.Projects), educationJSON, resume.CompletenessScore, status); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM shortlist_predictions WHERE user_id = $1`, userID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// reconcileSkills applies the resume upload contract to the skills table
// without destroying user-curated rows: a row this logic itself inserted on
// a prior upload is dropped when the new resume no longer claims it (no
// remnants of a prior resume survive), every other existing row is left
// untouched regardless of level, and any resume-claimed name not already
// present is inserted at Intermediate.
func reconcileSkills(ctx context.Context, tx pgx.Tx, userID string, priorSkillsRaw []byte, resume *model.ParsedResume) error {
	priorResumeNames := make(map[string]struct{})
	if len(priorSkillsRaw) > 0 {
		var buckets parsedSkillsJSON
		if err := json.Unmarshal(priorSkillsRaw, &buckets); err != nil {
			return err
		}
		prior := model.ParsedResume{
			TechnicalSkills:      buckets.TechnicalSkills,
			ProgrammingLanguages: buckets.ProgrammingLanguages,
			FrameworksLibraries:  buckets.FrameworksLibraries,
			ToolsPlatforms:       buckets.ToolsPlatforms,
			Databases:            buckets.Databases,
		}
		for _, name := range prior.AllTechnicalSkills() {
			priorResumeNames[model.NormalizeSkillKey(name)] = struct{}{}
		}
	}

	newResumeNames := make(map[string]struct{})
	for _, name := range resume.AllTechnicalSkills() {
		newResumeNames[model.NormalizeSkillKey(name)] = struct{}{}
	}

	rows, err := tx.Query(ctx, `SELECT id, name FROM skills WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	type existingSkill struct {
		id   string
		name string
	}
	var existing []existingSkill
	for rows.Next() {
		var s existingSkill
		if err := rows.Scan(&s.id, &s.name); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	kept := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		key := model.NormalizeSkillKey(s.name)
		_, wasResumeDerived := priorResumeNames[key]
		_, stillClaimed := newResumeNames[key]
		if wasResumeDerived && !stillClaimed {
			if _, err := tx.Exec(ctx, `DELETE FROM skills WHERE id = $1`, s.id); err != nil {
				return err
			}
			continue
		}
		kept[key] = struct{}{}
	}

	for _, name := range resume.AllTechnicalSkills() {
		key := model.NormalizeSkillKey(name)
		if _, ok := kept[key]; ok {
			continue
		}
		kept[key] = struct{}{}
		if _, err := tx.Exec(ctx, `INSERT INTO skills (user_id, name, level) VALUES ($1, $2, $3)`,
			userID, name, model.Intermediate); err != nil {
			return err
		}
	}
	return nil
}

// MarkParseFailed records a FAILED parsing status without touching the
// existing profile tables or purging predictions, so a bad upload never
// destroys a previously good profile.
func (r *ResumeSnapshotRepository) MarkParseFailed(ctx context.Context, userID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET resume_parsing_status = $2, resume_parsed_at = now() WHERE id = $1
	`, userID, model.ParsingFailed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
