package repository

import (
	"context"
	"encoding/json"

	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PredictionRepository is the Postgres-backed shortlist_predictions store.
type PredictionRepository struct {
	pool *pgxpool.Pool
}

func NewPredictionRepository(pool *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{pool: pool}
}

func (r *PredictionRepository) Save(ctx context.Context, p *model.Prediction) error {
	matched, err := json.Marshal(p.MatchedSkills)
	if err != nil {
		return err
	}
	missing, err := json.Marshal(p.MissingSkills)
	if err != nil {
		return err
	}
	weak, err := json.Marshal(p.WeakSkills)
	if err != nil {
		return err
	}
	improvements, err := json.Marshal(p.Improvements)
	if err != nil {
		return err
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO shortlist_predictions (
			id, user_id, job_id, candidate_strength, job_match_score,
			shortlist_probability, matched_skills, missing_skills, weak_skills,
			improvements, job_description_hash, embedding_source, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.JobID, p.CandidateStrength, p.JobMatchScore,
		p.ShortlistProbability, matched, missing, weak,
		improvements, p.JobDescriptionHash, string(p.EmbeddingSource), string(p.Status), p.Timestamp,
	)
	return err
}

func (r *PredictionRepository) History(ctx context.Context, userID string, limit int) ([]*model.Prediction, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, user_id, job_id, candidate_strength, job_match_score,
			shortlist_probability, matched_skills, missing_skills, weak_skills,
			improvements, job_description_hash, embedding_source, status, created_at
		FROM shortlist_predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Analytics aggregates a user's full prediction history. The running
// best/worst/missing-skill tallies are computed in Go rather than SQL
// since MatchedSkills/MissingSkills are stored as JSON arrays, not
// relational rows — a CTE-per-skill join isn't worth it at this volume.
func (r *PredictionRepository) Analytics(ctx context.Context, userID string) (*model.AnalyticsSummary, error) {
	predictions, err := r.allForAnalytics(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &model.AnalyticsSummary{TotalPredictions: len(predictions)}
	if len(predictions) == 0 {
		return summary, nil
	}

	missingCounts := make(map[string]int)
	var sum float64
	for _, p := range predictions {
		sum += p.ShortlistProbability
		if summary.Best == nil || p.ShortlistProbability > summary.Best.ShortlistProbability {
			summary.Best = p
		}
		if summary.Worst == nil || p.ShortlistProbability < summary.Worst.ShortlistProbability {
			summary.Worst = p
		}
		for _, skill := range p.MissingSkills {
			missingCounts[skill]++
		}
	}
	summary.AverageProbability = sum / float64(len(predictions))
	summary.TopMissingSkills = topN(missingCounts, 5)

	return summary, nil
}

func (r *PredictionRepository) allForAnalytics(ctx context.Context, userID string) ([]*model.Prediction, error) {
	query := `
		SELECT id, user_id, job_id, candidate_strength, job_match_score,
			shortlist_probability, matched_skills, missing_skills, weak_skills,
			improvements, job_description_hash, embedding_source, status, created_at
		FROM shortlist_predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPrediction(rows pgx.Rows) (*model.Prediction, error) {
	p := &model.Prediction{}
	var matched, missing, weak, improvements []byte
	var embeddingSource, status string

	if err := rows.Scan(
		&p.ID, &p.UserID, &p.JobID, &p.CandidateStrength, &p.JobMatchScore,
		&p.ShortlistProbability, &matched, &missing, &weak,
		&improvements, &p.JobDescriptionHash, &embeddingSource, &status, &p.Timestamp,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(matched, &p.MatchedSkills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(missing, &p.MissingSkills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(weak, &p.WeakSkills); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(improvements, &p.Improvements); err != nil {
		return nil, err
	}
	p.EmbeddingSource = model.EmbeddingSource(embeddingSource)
	p.Status = model.Status(status)

	return p, nil
}

func topN(counts map[string]int, n int) []string {
	type pair struct {
		skill string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for skill, count := range counts {
		pairs = append(pairs, pair{skill, count})
	}
	for i := 0; i < len(pairs); i++ {
		for j := i + 1; j < len(pairs); j++ {
			if pairs[j].count > pairs[i].count {
				pairs[i], pairs[j] = pairs[j], pairs[i]
			}
		}
	}
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]string, len(pairs))
	for i, pr := range pairs {
		out[i] = pr.skill
	}
	return out
}
