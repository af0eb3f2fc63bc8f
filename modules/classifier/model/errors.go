package model

import "errors"

var (
	// ErrModelUnavailable is returned when the classifier worker cannot
	// be started, times out, or returns an unusable response.
	ErrModelUnavailable = errors.New("classifier model unavailable")

	// ErrFeatureShapeMismatch is returned when the worker reports a zero
	// candidateStrength despite a feature vector carrying non-zero
	// signal (skills+experience+projects>0) — a sign the feature slice
	// and the artifact's expected layout have drifted apart.
	ErrFeatureShapeMismatch = errors.New("classifier feature shape mismatch")
)
