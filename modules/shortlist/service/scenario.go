package service

import (
	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
)

// applyScenario returns a new profile with the scenario's skill edits
// applied; the input profile is never mutated, since the modified branch
// of a what-if run must never touch the real profile or storage.
func applyScenario(profile *cpmodel.CandidateProfile, scenario model.Scenario) *cpmodel.CandidateProfile {
	modified := *profile
	modified.Skills = append([]cpmodel.Skill(nil), profile.Skills...)

	removed := make(map[string]struct{}, len(scenario.RemovedSkills))
	for _, name := range scenario.RemovedSkills {
		removed[normalize(name)] = struct{}{}
	}
	if len(removed) > 0 {
		filtered := modified.Skills[:0:0]
		for _, s := range modified.Skills {
			if _, drop := removed[normalize(s.Name)]; !drop {
				filtered = append(filtered, s)
			}
		}
		modified.Skills = filtered
	}

	for _, mod := range scenario.ModifiedSkills {
		for i := range modified.Skills {
			if normalize(modified.Skills[i].Name) == normalize(mod.Name) {
				modified.Skills[i].Level = cpmodel.SkillLevel(mod.NewLevel)
			}
		}
	}

	existing := make(map[string]struct{}, len(modified.Skills))
	for _, s := range modified.Skills {
		existing[normalize(s.Name)] = struct{}{}
	}
	for _, name := range scenario.AddedSkills {
		if _, ok := existing[normalize(name)]; ok {
			continue
		}
		modified.Skills = append(modified.Skills, cpmodel.Skill{Name: name, Level: cpmodel.Intermediate})
		existing[normalize(name)] = struct{}{}
	}

	return &modified
}
