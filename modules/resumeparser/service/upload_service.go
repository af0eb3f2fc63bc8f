package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	"github.com/arjunmehta/shortlist-engine/internal/platform/storage"
	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	cpports "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/ports"
	"github.com/arjunmehta/shortlist-engine/modules/resumeparser/model"
	"github.com/arjunmehta/shortlist-engine/modules/resumeparser/ports"
	"go.uber.org/zap"
)

// UploadService implements the resume upload endpoint's contract: parse,
// atomically REPLACE the owned profile tables on success, and never turn
// a parsing failure into a 5xx.
type UploadService struct {
	parser     ports.ParserWorker
	snapshots  cpports.ResumeSnapshotRepository
	s3         *storage.S3Client
	s3Enabled  bool
	log        *logger.Logger
}

func NewUploadService(parser ports.ParserWorker, snapshots cpports.ResumeSnapshotRepository, s3 *storage.S3Client, log *logger.Logger) *UploadService {
	return &UploadService{parser: parser, snapshots: snapshots, s3: s3, s3Enabled: s3 != nil, log: log}
}

// Upload runs the full resume-upload pipeline against fileContent (the
// whole uploaded file, already read into memory by the handler — resumes
// are small documents, unlike the dataset-sized payloads the rest of the
// platform streams).
func (s *UploadService) Upload(ctx context.Context, userID, filename string, fileContent []byte) (*model.UploadResult, error) {
	start := time.Now()

	tempPath, cleanup, err := writeTempFile(filename, fileContent)
	if err != nil {
		return nil, fmt.Errorf("failed to stage uploaded resume: %w", err)
	}
	defer cleanup()

	if looksLikePDF(fileContent) {
		if err := checkPDFExtractable(tempPath); err != nil {
			s.log.Info("resume pdf has no extractable text, skipping parser",
				zap.String("userId", userID), zap.Error(err))
			s.uploadOriginalBestEffort(ctx, userID, filename, fileContent)
			return s.finish(ctx, userID, emptyParsedResume(), cpmodel.ParsingFailed, start)
		}
	}

	resume, status, err := s.parser.Parse(ctx, tempPath)
	if err != nil {
		// Bridge-level failures still never surface as an upload error;
		// fold to FAILED with empty defaults per the availability
		// contract, but keep the error in logs.
		s.log.Error("resume parser bridge error, proceeding with empty defaults",
			zap.String("userId", userID), zap.Error(err))
		resume, status = emptyParsedResume(), cpmodel.ParsingFailed
	}

	s.uploadOriginalBestEffort(ctx, userID, filename, fileContent)

	return s.finish(ctx, userID, resume, status, start)
}

func (s *UploadService) finish(ctx context.Context, userID string, resume *cpmodel.ParsedResume, status cpmodel.ParsingStatus, start time.Time) (*model.UploadResult, error) {
	result := &model.UploadResult{
		ParsingStatus:           status,
		ParsingDurationMs:       time.Since(start).Milliseconds(),
		Skills:                  resume.AllTechnicalSkills(),
		Education:               resume.Education,
		ExperienceMonths:        resume.ExperienceMonths,
		ProjectsCount:           len(resume.Projects),
		ResumeCompletenessScore: resume.CompletenessScore,
	}

	if status == cpmodel.ParsingFailed {
		if err := s.snapshots.MarkParseFailed(ctx, userID); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := s.snapshots.ReplaceProfile(ctx, userID, resume, status); err != nil {
		s.log.Error("failed to persist parsed resume, resume file was still saved",
			zap.String("userId", userID), zap.Error(err))
		if markErr := s.snapshots.MarkParseFailed(ctx, userID); markErr != nil {
			s.log.Error("failed to mark resume parse as failed after persistence error",
				zap.String("userId", userID), zap.Error(markErr))
		}
		result.ParsingStatus = cpmodel.ParsingFailed
		result.Warning = "resume parsed successfully but could not be saved; please retry"
		return result, nil
	}

	return result, nil
}

func (s *UploadService) uploadOriginalBestEffort(ctx context.Context, userID, filename string, content []byte) {
	if !s.s3Enabled {
		return
	}
	key := fmt.Sprintf("resumes/%s/%d-%s", userID, time.Now().UnixNano(), filename)
	if err := s.s3.PutObject(ctx, key, bytes.NewReader(content), contentTypeFor(filename)); err != nil {
		s.log.Warn("failed to archive uploaded resume to object storage",
			zap.String("userId", userID), zap.Error(err))
	}
}

func contentTypeFor(filename string) string {
	if looksLikePDFFilename(filename) {
		return "application/pdf"
	}
	return "application/octet-stream"
}

func looksLikePDFFilename(filename string) bool {
	return len(filename) > 4 && filename[len(filename)-4:] == ".pdf"
}

func writeTempFile(filename string, content []byte) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "resume-*-"+sanitizeFilename(filename))
	if err != nil {
		return "", nil, err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

func sanitizeFilename(filename string) string {
	out := make([]rune, 0, len(filename))
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "upload"
	}
	return string(out)
}
