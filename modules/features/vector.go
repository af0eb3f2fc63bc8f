// Package features reduces a CandidateProfile to the fixed-order feature
// vector the classifier subprocess and the explanation layer both consume.
// Every function here is a pure function of its input: no I/O, no clock,
// no randomness.
package features

import (
	"strings"

	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
)

// ClassifierFeatureCount is the length of the slice fed to the classifier
// artifact. Changing it requires changing the artifact and Names/Values
// together.
const ClassifierFeatureCount = 13

// FullFeatureCount is the length of the full explanation-facing vector:
// the 13 classifier features plus 5 project-derived features retained
// only for logs and explanations.
const FullFeatureCount = 18

// Names is the full 18-element name vector, fixed order.
var Names = [FullFeatureCount]string{
	"skillCount",
	"advancedSkillCount",
	"intermediateSkillCount",
	"beginnerSkillCount",
	"skillDiversity",
	"totalExperienceMonths",
	"internshipCount",
	"jobCount",
	"hasRelevantExperience",
	"avgExperienceDurationMonths",
	"educationLevel",
	"hasQualifyingEducation",
	"cgpa",
	"projectCount",
	"highComplexityProjects",
	"mediumComplexityProjects",
	"projectComplexityScore",
	"overallStrengthScore",
}

// Education level tiers, per §4.3's educationLevel classification.
const (
	EducationNone             = 0
	EducationBachelorProgress = 1
	EducationBachelor         = 2
	EducationMastersOrHigher  = 3
)

// Extract computes the full 18-element feature vector for profile, in the
// order given by Names. The first ClassifierFeatureCount elements are the
// slice the classifier bridge is called with; Slice() returns exactly that
// prefix.
func Extract(profile *cpmodel.CandidateProfile) (names [FullFeatureCount]string, values [FullFeatureCount]float64) {
	names = Names

	skillCount, advanced, intermediate, beginner := countSkillLevels(profile.Skills)
	diversity := skillDiversity(profile.Skills)

	internshipCount, jobCount, hasRelevant, avgDuration := experienceFeatures(profile.Experience)

	educationLevel := classifyEducationLevel(profile.Education)
	hasQualifying := 0.0
	if educationLevel >= EducationBachelor {
		hasQualifying = 1.0
	}

	projectCount, highComplexity, mediumComplexity, complexityScore := projectFeatures(profile.Projects)

	overallStrength := overallStrengthScore(
		float64(skillCount), diversity, float64(profile.ExperienceMonths),
		float64(educationLevel), profile.CGPA, complexityScore,
	)

	values = [FullFeatureCount]float64{
		float64(skillCount),
		float64(advanced),
		float64(intermediate),
		float64(beginner),
		diversity,
		float64(profile.ExperienceMonths),
		float64(internshipCount),
		float64(jobCount),
		hasRelevant,
		avgDuration,
		float64(educationLevel),
		hasQualifying,
		profile.CGPA,
		float64(projectCount),
		float64(highComplexity),
		float64(mediumComplexity),
		complexityScore,
		overallStrength,
	}
	return names, values
}

// Slice returns the classifier-facing prefix of a full feature vector.
func Slice(values [FullFeatureCount]float64) [ClassifierFeatureCount]float64 {
	var out [ClassifierFeatureCount]float64
	copy(out[:], values[:ClassifierFeatureCount])
	return out
}

func countSkillLevels(skills []cpmodel.Skill) (total, advanced, intermediate, beginner int) {
	total = len(skills)
	for _, s := range skills {
		switch s.Level {
		case cpmodel.Advanced:
			advanced++
		case cpmodel.Intermediate:
			intermediate++
		case cpmodel.Beginner:
			beginner++
		}
	}
	return
}

// skillDiversity is the count of distinct normalized skill roots divided by
// max(skillCount,1).
func skillDiversity(skills []cpmodel.Skill) float64 {
	if len(skills) == 0 {
		return 0
	}
	roots := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		roots[normalizeSkillRoot(s.Name)] = struct{}{}
	}
	return float64(len(roots)) / float64(maxInt(len(skills), 1))
}

// normalizeSkillRoot collapses known skill aliases to a canonical root so
// that e.g. "JS" and "JavaScript" count as one distinct skill for
// diversity purposes. Unknown skills fall back to lowercase trim.
func normalizeSkillRoot(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if root, ok := skillAliasRoots[key]; ok {
		return root
	}
	return key
}

func experienceFeatures(experience []cpmodel.Experience) (internshipCount, jobCount int, hasRelevant, avgDuration float64) {
	var totalDuration, withDuration int
	for _, e := range experience {
		switch e.Type {
		case cpmodel.ExperienceInternship:
			internshipCount++
		case cpmodel.ExperienceJob, cpmodel.ExperienceFreelance:
			jobCount++
		}
		if e.DurationMonths != nil {
			totalDuration += *e.DurationMonths
			withDuration++
		}
	}
	if len(experience) > 0 {
		hasRelevant = 1.0
	}
	if withDuration > 0 {
		avgDuration = float64(totalDuration) / float64(withDuration)
	}
	return
}

func classifyEducationLevel(education []cpmodel.Education) int {
	best := EducationNone
	for _, e := range education {
		level := classifySingleDegree(e.Degree)
		if level > best {
			best = level
		}
	}
	return best
}

func classifySingleDegree(degree string) int {
	d := strings.ToLower(degree)
	inProgress := containsAny(d, "pursuing", "in progress", "current")
	switch {
	case containsAny(d, "phd", "doctorate", "master", "msc", "m.sc", "m.tech", "mtech", "mba"):
		return EducationMastersOrHigher
	case containsAny(d, "bachelor", "bsc", "b.sc", "b.tech", "btech", "be ", "b.e.", "bca") && inProgress:
		return EducationBachelorProgress
	case containsAny(d, "bachelor", "bsc", "b.sc", "b.tech", "btech", "be ", "b.e.", "bca"):
		return EducationBachelor
	case inProgress:
		return EducationBachelorProgress
	default:
		return EducationNone
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func projectFeatures(projects []cpmodel.Project) (count, high, medium int, complexityScore float64) {
	count = len(projects)
	var weightSum float64
	for _, p := range projects {
		switch p.Complexity {
		case cpmodel.ComplexityHigh:
			high++
			weightSum += 3
		case cpmodel.ComplexityMedium:
			medium++
			weightSum += 2
		case cpmodel.ComplexityLow:
			weightSum += 1
		default:
			weightSum += 2 // unset defaults to Medium per upload persistence rule
		}
	}
	if count > 0 {
		complexityScore = weightSum / (3 * float64(count))
	}
	return
}

// overallStrengthScore is a bounded [0,1] composite used only for logs and
// explanations, never fed to the classifier.
func overallStrengthScore(skillCount, diversity, experienceMonths, educationLevel, cgpa, complexityScore float64) float64 {
	skillScore := clamp01(skillCount / 15.0)
	experienceScore := clamp01(experienceMonths / 36.0)
	educationScore := educationLevel / float64(EducationMastersOrHigher)

	score := 0.3*skillScore + 0.15*diversity + 0.2*experienceScore + 0.15*educationScore + 0.1*cgpa + 0.1*complexityScore
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
