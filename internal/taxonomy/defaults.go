package taxonomy

import "talent-match/internal/domain/skill"

var builtin = []string{
	"JavaScript", "NodeJS", "React", "Python", "Java",
	"TypeScript", "MongoDB", "PostgreSQL", "Docker", "Git",
}

// DefaultSkills is the fallback taxonomy served while the store is unreachable.
func DefaultSkills() []skill.Entry {
	out := make([]skill.Entry, 0, len(builtin))
	for _, name := range builtin {
		out = append(out, skill.Entry{Name: name, Slug: skill.Slugify(name), Category: "fallback"})
	}
	return out
}
