package service

import (
	"context"

	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	"github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	"github.com/arjunmehta/shortlist-engine/modules/candidateprofile/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProfileBuilder assembles a fresh CandidateProfile on every call. Nothing
// it returns is cached: the orchestrator's per-request isolation guarantee
// depends on this builder re-reading storage every time it is invoked.
type ProfileBuilder struct {
	profiles ports.ProfileRepository
	resumes  ports.ResumeSnapshotRepository
	log      *logger.Logger
}

func NewProfileBuilder(profiles ports.ProfileRepository, resumes ports.ResumeSnapshotRepository, log *logger.Logger) *ProfileBuilder {
	return &ProfileBuilder{profiles: profiles, resumes: resumes, log: log}
}

type profileTables struct {
	userType   *model.UserType
	skills     []model.Skill
	education  []model.Education
	experience []model.Experience
	projects   []model.Project
}

// Fetch builds the CandidateProfile for userID, reading the profile tables
// and the resume snapshot concurrently and merging per the resume-first
// rules: resume-reported totals win when they exceed what the discrete rows
// show, a resume CGPA (0-10 scale) is normalized and takes precedence over a
// manually entered one, and skills are unioned case-insensitively with the
// user-curated level winning on any collision.
func (b *ProfileBuilder) Fetch(ctx context.Context, userID string) (*model.CandidateProfile, error) {
	var tables profileTables
	var snapshot *model.ResumeSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tables, err = b.fetchProfileTables(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot, err = b.resumes.GetSnapshot(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := &model.CandidateProfile{
		UserID:     userID,
		UserType:   tables.userType,
		Skills:     tables.skills,
		Education:  tables.education,
		Experience: tables.experience,
		Projects:   tables.projects,
	}

	profileExperienceMonths := sumExperienceMonths(tables.experience)
	profileProjectsCount := len(tables.projects)
	profileCGPA := 0.0

	resumeExperienceMonths := 0
	resumeProjectsCount := 0
	var resumeCGPA *float64
	if snapshot.Parsed != nil {
		resumeExperienceMonths = snapshot.Parsed.ExperienceMonths
		resumeProjectsCount = snapshot.ProjectsCount
		resumeCGPA = snapshot.Parsed.CGPA
		profile.Skills = mergeSkills(tables.skills, snapshot.Parsed.AllTechnicalSkills())
		if len(profile.Education) == 0 {
			profile.Education = snapshot.Parsed.Education
		}
	}

	profile.ExperienceMonths = maxInt(resumeExperienceMonths, profileExperienceMonths)
	profile.ProjectsCount = maxInt(resumeProjectsCount, profileProjectsCount)

	switch {
	case resumeCGPA != nil:
		profile.CGPA = *resumeCGPA / 10.0
	default:
		profile.CGPA = profileCGPA
	}
	if profile.CGPA == 0 {
		profile.CGPA = firstCGPAFromEducation(profile.Education)
	}

	b.log.Debug("candidate profile built",
		zap.String("userId", userID),
		zap.Int("mergedSkills", len(profile.Skills)),
		zap.Int("profileExperienceMonths", profileExperienceMonths),
		zap.Int("resumeExperienceMonths", resumeExperienceMonths),
		zap.Int("mergedExperienceMonths", profile.ExperienceMonths),
		zap.Int("mergedProjectsCount", profile.ProjectsCount),
		zap.Bool("hasResumeSnapshot", snapshot.Parsed != nil),
	)

	return profile, nil
}

func (b *ProfileBuilder) fetchProfileTables(ctx context.Context, userID string) (profileTables, error) {
	var tables profileTables
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		userType, err := b.profiles.GetUserType(gctx, userID)
		tables.userType = userType
		return err
	})
	g.Go(func() error {
		skills, err := b.profiles.GetSkills(gctx, userID)
		tables.skills = skills
		return err
	})
	g.Go(func() error {
		education, err := b.profiles.GetEducation(gctx, userID)
		tables.education = education
		return err
	})
	g.Go(func() error {
		experience, err := b.profiles.GetExperience(gctx, userID)
		tables.experience = experience
		return err
	})
	g.Go(func() error {
		projects, err := b.profiles.GetProjects(gctx, userID)
		tables.projects = projects
		return err
	})
	if err := g.Wait(); err != nil {
		return profileTables{}, err
	}
	return tables, nil
}

// mergeSkills unions the profile-table rows with the resume's technical
// skill buckets, keyed case-insensitively. A name claimed in both keeps the
// profile row's level — the profile is the user-curated source of truth —
// and a resume-only name is admitted at Intermediate. Soft skills never
// enter this union.
func mergeSkills(profileSkills []model.Skill, resumeSkillNames []string) []model.Skill {
	merged := make([]model.Skill, len(profileSkills))
	copy(merged, profileSkills)

	seen := make(map[string]struct{}, len(profileSkills))
	for _, s := range profileSkills {
		seen[model.NormalizeSkillKey(s.Name)] = struct{}{}
	}
	for _, name := range resumeSkillNames {
		key := model.NormalizeSkillKey(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, model.Skill{Name: name, Level: model.Intermediate})
	}
	return merged
}

func sumExperienceMonths(experience []model.Experience) int {
	total := 0
	for _, e := range experience {
		if e.DurationMonths != nil {
			total += *e.DurationMonths
		}
	}
	return total
}

func firstCGPAFromEducation(education []model.Education) float64 {
	for _, e := range education {
		if e.CGPA != nil {
			return *e.CGPA
		}
	}
	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
