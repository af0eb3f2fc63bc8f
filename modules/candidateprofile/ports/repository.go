package ports

import (
	"context"

	"github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
)

// ProfileRepository reads the profile tables (users, skills, education,
// projects, experience). Writes to skills, projects and experience go
// through ResumeSnapshotRepository.
type ProfileRepository interface {
	// GetUserType returns the external users row's user type, nil if the
	// user exists but has none set. Returns model.ErrUserNotFound when the
	// row does not exist.
	GetUserType(ctx context.Context, userID string) (*model.UserType, error)
	GetSkills(ctx context.Context, userID string) ([]model.Skill, error)
	GetEducation(ctx context.Context, userID string) ([]model.Education, error)
	GetExperience(ctx context.Context, userID string) ([]model.Experience, error)
	GetProjects(ctx context.Context, userID string) ([]model.Project, error)
}

// ResumeSnapshotRepository reads and writes the resume-derived columns this
// service owns on the users row, and replaces the profile tables it shares
// with the external user module on a successful parse.
type ResumeSnapshotRepository interface {
	// GetSnapshot returns the most recently persisted parse result for a
	// user, or a zero-value snapshot with ParsingStatus="" if none exists.
	GetSnapshot(ctx context.Context, userID string) (*model.ResumeSnapshot, error)

	// ReplaceProfile atomically replaces the user's projects/experience
	// rows with the ones derived from a parsed resume and reconciles the
	// skills rows: a skill named in the prior resume snapshot and not in
	// the new one is deleted, a new resume skill is inserted at
	// Intermediate, and skill rows not named in the prior snapshot are not
	// deleted. It also updates the resume-derived columns on the users
	// row, and purges any
	// previously cached predictions for the user — all inside one
	// transaction, with the users row locked FOR UPDATE for the duration.
	ReplaceProfile(ctx context.Context, userID string, resume *model.ParsedResume, status model.ParsingStatus) error

	// MarkParseFailed records a FAILED parsing status without touching the
	// existing profile tables, so a bad upload never destroys a previously
	// good profile.
	MarkParseFailed(ctx context.Context, userID string) error
}
