package features

import (
	"testing"

	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestExtract_EmptyProfile(t *testing.T) {
	profile := &cpmodel.CandidateProfile{UserID: "u1"}

	names, values := Extract(profile)

	require.Len(t, names, FullFeatureCount)
	require.Len(t, values, FullFeatureCount)
	assert.Equal(t, "skillCount", names[0])
	assert.Equal(t, 0.0, values[0])
	assert.Equal(t, "overallStrengthScore", names[FullFeatureCount-1])
}

func TestExtract_StrongMLCandidate(t *testing.T) {
	profile := &cpmodel.CandidateProfile{
		UserID: "u1",
		Skills: []cpmodel.Skill{
			{Name: "Python", Level: cpmodel.Advanced},
			{Name: "Machine Learning", Level: cpmodel.Advanced},
			{Name: "TensorFlow", Level: cpmodel.Advanced},
			{Name: "Scikit-learn", Level: cpmodel.Advanced},
			{Name: "Pandas", Level: cpmodel.Intermediate},
			{Name: "SQL", Level: cpmodel.Intermediate},
		},
		Education:        []cpmodel.Education{{Degree: "Bachelor of Science"}},
		ExperienceMonths: 3,
		Experience:       []cpmodel.Experience{{Role: "ML Intern", Type: cpmodel.ExperienceInternship, DurationMonths: intPtr(3)}},
		ProjectsCount:    3,
		Projects: []cpmodel.Project{
			{Title: "a", Complexity: cpmodel.ComplexityHigh},
			{Title: "b", Complexity: cpmodel.ComplexityMedium},
			{Title: "c", Complexity: cpmodel.ComplexityMedium},
		},
		CGPA: 0.78,
	}

	_, values := Extract(profile)
	sliced := Slice(values)

	assert.Equal(t, 6.0, sliced[0])          // skillCount
	assert.Equal(t, 4.0, sliced[1])          // advancedSkillCount
	assert.Equal(t, 2.0, sliced[2])          // intermediateSkillCount
	assert.Equal(t, 0.0, sliced[3])          // beginnerSkillCount
	assert.Equal(t, 3.0, sliced[5])          // totalExperienceMonths
	assert.Equal(t, 1.0, sliced[6])          // internshipCount
	assert.Equal(t, 1.0, sliced[8])          // hasRelevantExperience
	assert.Equal(t, float64(EducationBachelor), sliced[10])
	assert.Equal(t, 1.0, sliced[11])         // hasQualifyingEducation
	assert.Equal(t, 0.78, sliced[12])        // cgpa
}

func TestSlice_TakesClassifierPrefixOnly(t *testing.T) {
	var full [FullFeatureCount]float64
	for i := range full {
		full[i] = float64(i)
	}

	sliced := Slice(full)

	require.Len(t, sliced, ClassifierFeatureCount)
	assert.Equal(t, 0.0, sliced[0])
	assert.Equal(t, float64(ClassifierFeatureCount-1), sliced[ClassifierFeatureCount-1])
}

func TestSkillDiversity_AliasesCollapse(t *testing.T) {
	skills := []cpmodel.Skill{
		{Name: "JS", Level: cpmodel.Beginner},
		{Name: "JavaScript", Level: cpmodel.Intermediate},
		{Name: "Go", Level: cpmodel.Advanced},
	}

	diversity := skillDiversity(skills)

	assert.InDelta(t, 2.0/3.0, diversity, 0.0001)
}

func TestClassifyEducationLevel(t *testing.T) {
	cases := []struct {
		name  string
		input []cpmodel.Education
		want  int
	}{
		{"no education", nil, EducationNone},
		{"bachelor", []cpmodel.Education{{Degree: "B.Tech Computer Science"}}, EducationBachelor},
		{"masters", []cpmodel.Education{{Degree: "Master of Science"}}, EducationMastersOrHigher},
		{"pursuing bachelor", []cpmodel.Education{{Degree: "Bachelor of Engineering (pursuing)"}}, EducationBachelorProgress},
		{"takes best of several", []cpmodel.Education{
			{Degree: "Higher Secondary"},
			{Degree: "MBA"},
		}, EducationMastersOrHigher},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyEducationLevel(tc.input))
		})
	}
}
