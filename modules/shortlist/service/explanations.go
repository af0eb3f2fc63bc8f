package service

import (
	"math"
	"strings"

	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	jmmodel "github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
)

func joinSkillNames(skills []cpmodel.Skill) string {
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}
	return strings.Join(names, " ")
}

// matchSkills computes matchedSkills/missingSkills/weakSkills per the
// explanation-synthesis rules: matched is the case-insensitive
// intersection, missing preserves the job's required-skill order, and weak
// is the subset of matched where the candidate's level is Beginner.
func matchSkills(candidateSkills []cpmodel.Skill, jobSkills []string) (matched, missing, weak []string) {
	byNormalizedName := make(map[string]cpmodel.Skill, len(candidateSkills))
	for _, s := range candidateSkills {
		byNormalizedName[normalize(s.Name)] = s
	}

	for _, required := range jobSkills {
		if skill, ok := byNormalizedName[normalize(required)]; ok {
			matched = append(matched, required)
			if skill.Level == cpmodel.Beginner {
				weak = append(weak, required)
			}
		} else {
			missing = append(missing, required)
		}
	}
	return matched, missing, weak
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var seniorityKeywords = []string{"senior", "lead", "staff", "principal", "architect"}

func demandsSeniority(job *jmmodel.Resolved) bool {
	text := strings.ToLower(job.JDText)
	if job.ExperienceLevel != nil {
		text += " " + strings.ToLower(*job.ExperienceLevel)
	}
	for _, kw := range seniorityKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// buildImprovements assembles at most 5 concrete, ordered suggestions from
// actual gaps in the profile against the job — never static boilerplate.
func buildImprovements(profile *cpmodel.CandidateProfile, job *jmmodel.Resolved, missing []string, experienceMonths int) []string {
	var out []string

	if len(missing) > 0 {
		top := missing
		if len(top) > 3 {
			top = top[:3]
		}
		out = append(out, "Learn "+strings.Join(top, ", ")+" to match this job's required skills")
	}

	if experienceMonths < 12 && demandsSeniority(job) {
		out = append(out, "Gain more professional experience; this role expects seniority")
	}

	if profile.ProjectsCount < 2 {
		out = append(out, "Build more projects to strengthen your portfolio")
	}

	if len(profile.Skills) < 5 {
		out = append(out, "Broaden your skill set beyond its current narrow focus")
	}

	internshipCount := 0
	for _, e := range profile.Experience {
		if e.Type == cpmodel.ExperienceInternship {
			internshipCount++
		}
	}
	if experienceMonths == 0 && internshipCount == 0 {
		out = append(out, "Seek an internship or entry-level role to start building work history")
	}

	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func roundTo6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func pushScoreRing(ring []scoreEntry, entry scoreEntry, max int) []scoreEntry {
	ring = append(ring, entry)
	if len(ring) > max {
		ring = ring[len(ring)-max:]
	}
	return ring
}
