package repository

import (
	"context"
	"errors"

	"github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JobRepository implements ports.JobRepository.
type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) GetByID(ctx context.Context, jobID string) (*model.JobRecord, error) {
	query := `
		SELECT j.id, c.name, j.title, j.description, j.job_description, j.skills,
		       j.experience_level, j.is_remote, j.city, j.state, j.country, j.job_location
		FROM jobs j
		LEFT JOIN companies c ON j.company_id = c.id
		WHERE j.id = $1
	`
	job := &model.JobRecord{}
	err := r.pool.QueryRow(ctx, query, jobID).Scan(
		&job.ID, &job.CompanyName, &job.Title, &job.Description, &job.JobDescription, &job.Skills,
		&job.ExperienceLevel, &job.IsRemote, &job.City, &job.State, &job.Country, &job.JobLocation,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (r *JobRepository) PersistSkills(ctx context.Context, jobID string, skills []string) error {
	_, err := r.pool.Exec(ctx, `UPDATE jobs SET skills = $2 WHERE id = $1`, jobID, skills)
	return err
}
