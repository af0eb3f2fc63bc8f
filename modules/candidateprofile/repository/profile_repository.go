package repository

import (
	"context"
	"errors"

	"github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository implements ports.ProfileRepository against the external
// users/skills/projects/experience tables this service reads but does not
// own the schema of.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) GetUserType(ctx context.Context, userID string) (*model.UserType, error) {
	var userType *string
	err := r.pool.QueryRow(ctx, `SELECT user_type FROM users WHERE id = $1`, userID).Scan(&userType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	if userType == nil {
		return nil, nil
	}
	ut := model.UserType(*userType)
	return &ut, nil
}

func (r *ProfileRepository) GetSkills(ctx context.Context, userID string) ([]model.Skill, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, level FROM skills WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []model.Skill
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(&s.Name, &s.Level); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *ProfileRepository) GetEducation(ctx context.Context, userID string) ([]model.Education, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT degree, field, institution, year, cgpa
		FROM education WHERE user_id = $1 ORDER BY year DESC NULLS LAST
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Education
	for rows.Next() {
		var e model.Education
		if err := rows.Scan(&e.Degree, &e.Field, &e.Institution, &e.Year, &e.CGPA); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) GetExperience(ctx context.Context, userID string) ([]model.Experience, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role, company, duration_months, type
		FROM experience WHERE user_id = $1 ORDER BY duration_months DESC NULLS LAST
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Experience
	for rows.Next() {
		var e model.Experience
		if err := rows.Scan(&e.Role, &e.Company, &e.DurationMonths, &e.Type); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) GetProjects(ctx context.Context, userID string) ([]model.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT title, tech_stack, description, complexity
		FROM projects WHERE user_id = $1 ORDER BY title
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.Title, &p.TechStack, &p.Description, &p.Complexity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
