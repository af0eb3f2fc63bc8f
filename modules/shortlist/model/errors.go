package model

import (
	"errors"

	cfmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	clfmodel "github.com/arjunmehta/shortlist-engine/modules/classifier/model"
	embmodel "github.com/arjunmehta/shortlist-engine/modules/embedding/model"
	jmmodel "github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
)

// Errors owned by the orchestrator itself; sibling-module errors
// (UserNotFound, JobNotFound, JDEmpty, ModelUnavailable,
// DuplicateEmbeddingDetected) are mapped below rather than redeclared.
var (
	ErrMissingIDs            = errors.New("userId and jobId are required")
	ErrCandidateIncomplete   = errors.New("candidate profile has no signal: no skills, experience, or projects")
	ErrFeatureShapeMismatch  = errors.New("classifier returned zero strength for a non-empty feature vector")
	ErrStateLeakageDetected  = errors.New("identical job match score across distinct jobs")
	ErrTimeout               = errors.New("operation exceeded its bounded timeout")
)

type ErrorCode string

const (
	CodeUserNotFound          ErrorCode = "USER_NOT_FOUND"
	CodeJobNotFound           ErrorCode = "JOB_NOT_FOUND"
	CodeJDEmpty               ErrorCode = "JD_EMPTY"
	CodeCandidateIncomplete   ErrorCode = "CANDIDATE_INCOMPLETE"
	CodeModelUnavailable      ErrorCode = "MODEL_UNAVAILABLE"
	CodeClassifierInvariant   ErrorCode = "CLASSIFIER_INVARIANT_FAILED"
	CodeDuplicateEmbedding    ErrorCode = "DUPLICATE_EMBEDDING_DETECTED"
	CodeStateLeakage          ErrorCode = "STATE_LEAKAGE_DETECTED"
	CodeTimeout               ErrorCode = "TIMEOUT"
	CodeValidation            ErrorCode = "VALIDATION_ERROR"
	CodeInternalError         ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps any error this service can produce — its own sentinels
// plus every sibling module's — to a stable code, mirroring the
// GetErrorCode/GetErrorMessage pattern every module in this codebase uses.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrMissingIDs):
		return CodeValidation
	case errors.Is(err, cfmodel.ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, jmmodel.ErrJobNotFound):
		return CodeJobNotFound
	case errors.Is(err, jmmodel.ErrJDEmpty):
		return CodeJDEmpty
	case errors.Is(err, ErrCandidateIncomplete):
		return CodeCandidateIncomplete
	case errors.Is(err, clfmodel.ErrModelUnavailable), errors.Is(err, embmodel.ErrModelUnavailable):
		return CodeModelUnavailable
	case errors.Is(err, clfmodel.ErrFeatureShapeMismatch), errors.Is(err, ErrFeatureShapeMismatch):
		return CodeClassifierInvariant
	case errors.Is(err, embmodel.ErrDuplicateEmbeddingDetected):
		return CodeDuplicateEmbedding
	case errors.Is(err, ErrStateLeakageDetected):
		return CodeStateLeakage
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	default:
		return CodeInternalError
	}
}

// HTTPStatus maps an ErrorCode to the status declared in SPEC_FULL.md §7.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case CodeUserNotFound, CodeJobNotFound:
		return 404
	case CodeJDEmpty, CodeCandidateIncomplete:
		return 422
	case CodeModelUnavailable:
		return 503
	case CodeClassifierInvariant, CodeDuplicateEmbedding, CodeStateLeakage, CodeInternalError:
		return 500
	case CodeTimeout:
		return 504
	case CodeValidation:
		return 400
	default:
		return 500
	}
}

func GetErrorMessage(err error) string {
	switch GetErrorCode(err) {
	case CodeValidation:
		return "userId and jobId are required"
	case CodeUserNotFound:
		return "User not found"
	case CodeJobNotFound:
		return "Job not found"
	case CodeJDEmpty:
		return "Job description is empty"
	case CodeCandidateIncomplete:
		return "Candidate profile has no usable signal"
	case CodeModelUnavailable:
		return "Prediction model is unavailable"
	case CodeClassifierInvariant:
		return "Classifier returned an invalid result"
	case CodeDuplicateEmbedding:
		return "Duplicate embedding detected across distinct jobs"
	case CodeStateLeakage:
		return "State leakage detected across distinct jobs"
	case CodeTimeout:
		return "Request exceeded its timeout"
	default:
		return "Internal server error"
	}
}
