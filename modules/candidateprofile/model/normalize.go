package model

import "strings"

// NormalizeSkillKey canonicalizes a skill name for case-insensitive identity
// comparisons. It is intentionally simple: lowercase plus trimmed
// whitespace, no stemming.
func NormalizeSkillKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
