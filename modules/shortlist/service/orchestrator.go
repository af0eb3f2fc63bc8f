package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arjunmehta/shortlist-engine/internal/platform/concurrency"
	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	cpservice "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/service"
	clfservice "github.com/arjunmehta/shortlist-engine/modules/classifier/service"
	embservice "github.com/arjunmehta/shortlist-engine/modules/embedding/service"
	"github.com/arjunmehta/shortlist-engine/modules/features"
	jmmodel "github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
	jmservice "github.com/arjunmehta/shortlist-engine/modules/jobmatch/service"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// recentScoreRingSize bounds the collision-detection ring the same way the
// embedding service bounds its own recent-embeddings ring: the last 10
// recorded scores (a jobId may appear more than once) are enough to catch
// a leaking process without growing unbounded memory.
const recentScoreRingSize = 10

type scoreEntry struct {
	jobID string
	score float64
}

// Orchestrator drives predict(userId, jobId) end-to-end: fetch profile and
// job concurrently, extract features, embed both sides, classify, fuse,
// explain, persist. It is the only component besides the Embedding Service
// that holds process-global mutable state — a small ring buffer used
// solely for the state-leakage collision guard.
type Orchestrator struct {
	profiles    *cpservice.ProfileBuilder
	jobs        *jmservice.JobFetcher
	embeddings  *embservice.Service
	classifier  *clfservice.Bridge
	predictions ports.PredictionStore
	pool        *concurrency.PredictionPool
	log         *logger.Logger

	mu            sync.Mutex
	previousJobID string
	recentScores  []scoreEntry
}

func NewOrchestrator(
	profiles *cpservice.ProfileBuilder,
	jobs *jmservice.JobFetcher,
	embeddings *embservice.Service,
	classifier *clfservice.Bridge,
	predictions ports.PredictionStore,
	pool *concurrency.PredictionPool,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		profiles:    profiles,
		jobs:        jobs,
		embeddings:  embeddings,
		classifier:  classifier,
		predictions: predictions,
		pool:        pool,
		log:         log,
	}
}

// Predict runs one prediction pipeline to completion and persists the
// result. Every error it can return is one of the typed sentinels in
// modules/shortlist/model or a sibling module's — never a bare numeric
// fallback.
func (o *Orchestrator) Predict(ctx context.Context, userID, jobID string) (*model.Prediction, error) {
	if userID == "" || jobID == "" {
		return nil, model.ErrMissingIDs
	}

	release, err := o.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTimeout, err)
	}
	defer release()

	pipeline, err := o.run(ctx, userID, jobID)
	if err != nil {
		o.log.Error("prediction failed",
			zap.String("userId", userID), zap.String("jobId", jobID), zap.Error(err))
		return nil, err
	}
	return pipeline, nil
}

func (o *Orchestrator) run(ctx context.Context, userID, jobID string) (*model.Prediction, error) {
	profile, job, err := o.fetchInputs(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	_, values := features.Extract(profile)
	skillCount, experienceMonths, projectCount := values[0], values[5], values[13]
	if skillCount == 0 && experienceMonths == 0 && projectCount == 0 {
		return nil, model.ErrCandidateIncomplete
	}

	jobEmbedding, err := o.embeddings.EmbedJob(ctx, job.ID, job.JDText)
	if err != nil {
		return nil, err
	}

	skillEmbedding, err := o.embeddings.EmbedSkillText(ctx, joinSkillNames(profile.Skills))
	if err != nil {
		return nil, err
	}

	jobMatchScore := embservice.CosineSimilarity(skillEmbedding, jobEmbedding.Embedding)

	classifierResult, err := o.classifier.Predict(ctx, features.Slice(values))
	if err != nil {
		return nil, err
	}
	if classifierResult.CandidateStrength == 0 && (skillCount > 0 || experienceMonths > 0 || projectCount > 0) {
		return nil, model.ErrFeatureShapeMismatch
	}

	previousJobID, collidesWith, err := o.checkAndRecordScore(jobID, jobMatchScore)
	if err != nil {
		return nil, err
	}

	matched, missing, weak := matchSkills(profile.Skills, job.Skills)
	improvements := buildImprovements(profile, job, missing, int(experienceMonths))

	prediction := &model.Prediction{
		UserID:               userID,
		JobID:                jobID,
		CandidateStrength:    classifierResult.CandidateStrength,
		JobMatchScore:        jobMatchScore,
		ShortlistProbability: model.ShortlistProbability(classifierResult.CandidateStrength, jobMatchScore),
		MatchedSkills:        matched,
		MissingSkills:        missing,
		WeakSkills:           weak,
		Improvements:         improvements,
		JobDescriptionHash:   job.JDHash,
		EmbeddingSource:      model.EmbeddingSource(jobEmbedding.Source),
		Status:               model.StatusDone,
		Timestamp:            time.Now().UTC(),
	}

	if err := o.predictions.Save(ctx, prediction); err != nil {
		return nil, err
	}

	o.log.Info("prediction computed",
		zap.String("userId", userID), zap.String("jobId", jobID), zap.String("previousJobId", previousJobID),
		zap.String("jdHash", job.JDHash), zap.String("embeddingSource", string(prediction.EmbeddingSource)),
		zap.Float64("candidateStrength", prediction.CandidateStrength),
		zap.Float64("jobMatchScore", prediction.JobMatchScore),
		zap.Float64("shortlistProbability", prediction.ShortlistProbability),
		zap.String("collisionCheckedAgainst", collidesWith),
	)

	return prediction, nil
}

func (o *Orchestrator) fetchInputs(ctx context.Context, userID, jobID string) (*cpmodel.CandidateProfile, *jmmodel.Resolved, error) {
	var profile *cpmodel.CandidateProfile
	var job *jmmodel.Resolved

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := o.profiles.Fetch(gctx, userID)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		j, err := o.jobs.Fetch(gctx, jobID)
		if err != nil {
			return err
		}
		job = j
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return profile, job, nil
}

// checkAndRecordScore implements the state-leakage collision guard: the
// just-computed jobMatchScore is compared, to six decimals, against those
// of the last recentScoreRingSize recorded scores that came from other
// jobIds before being recorded.
func (o *Orchestrator) checkAndRecordScore(jobID string, score float64) (previousJobID, collidesWith string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	previousJobID = o.previousJobID
	o.previousJobID = jobID

	rounded := roundTo6(score)
	for _, entry := range o.recentScores {
		if entry.jobID != jobID && roundTo6(entry.score) == rounded {
			return previousJobID, entry.jobID, fmt.Errorf("%w: %s collides with %s", model.ErrStateLeakageDetected, jobID, entry.jobID)
		}
	}

	o.recentScores = pushScoreRing(o.recentScores, scoreEntry{jobID: jobID, score: score}, recentScoreRingSize)
	return previousJobID, "", nil
}
