package ports

import (
	"context"

	"github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
)

// JobRepository reads the external jobs table and writes back the
// extracted required-skills list the one field this service owns.
type JobRepository interface {
	GetByID(ctx context.Context, jobID string) (*model.JobRecord, error)
	PersistSkills(ctx context.Context, jobID string, skills []string) error
}
