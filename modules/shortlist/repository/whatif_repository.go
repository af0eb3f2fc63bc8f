package repository

import (
	"context"
	"encoding/json"

	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WhatIfRepository is the Postgres-backed what_if_simulations store.
type WhatIfRepository struct {
	pool *pgxpool.Pool
}

func NewWhatIfRepository(pool *pgxpool.Pool) *WhatIfRepository {
	return &WhatIfRepository{pool: pool}
}

func (r *WhatIfRepository) Save(ctx context.Context, result *model.WhatIfResult) error {
	scenario, err := json.Marshal(result.Scenario)
	if err != nil {
		return err
	}
	if result.ID == "" {
		result.ID = uuid.New().String()
	}

	query := `
		INSERT INTO what_if_simulations (
			id, user_id, job_id,
			baseline_candidate_strength, baseline_job_match_score, baseline_shortlist_probability,
			projected_candidate_strength, projected_job_match_score, projected_shortlist_probability,
			delta_candidate_strength, delta_job_match_score, delta_shortlist_probability,
			scenario, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.pool.Exec(ctx, query,
		result.ID, result.UserID, result.JobID,
		result.BaselineCandidateStrength, result.BaselineJobMatchScore, result.BaselineShortlistProbability,
		result.ProjectedCandidateStrength, result.ProjectedJobMatchScore, result.ProjectedShortlistProbability,
		result.DeltaCandidateStrength, result.DeltaJobMatchScore, result.DeltaShortlistProbability,
		scenario, result.Timestamp,
	)
	return err
}
