package ports

import (
	"context"

	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
)

// PredictionStore is the storage contract the orchestrator and the
// history/analytics endpoints depend on.
type PredictionStore interface {
	Save(ctx context.Context, prediction *model.Prediction) error
	History(ctx context.Context, userID string, limit int) ([]*model.Prediction, error)
	Analytics(ctx context.Context, userID string) (*model.AnalyticsSummary, error)
}

// WhatIfStore persists what_if_simulations rows.
type WhatIfStore interface {
	Save(ctx context.Context, result *model.WhatIfResult) error
}
