// Package search expands skill names into the spellings found in CVs and job ads.
package search

import "strings"

// Synonyms maps a skill slug to alternative spellings that count as the same skill.
var Synonyms = map[string][]string{
	"go":         {"golang"},
	"javascript": {"ecmascript"},
	"nodejs":     {"node.js", "node js"},
	"react":      {"reactjs", "react.js"},
	"postgresql": {"postgres"},
	"mongodb":    {"mongo"},
	"kubernetes": {"k8s"},
	"aws":        {"amazon web services"},
	"gcp":        {"google cloud platform", "google cloud"},
}

const maxTerms = 10

func GetSynonyms(slug string) []string {
	if slug == "" {
		return []string{}
	}
	if v, ok := Synonyms[strings.ToLower(slug)]; ok {
		out := make([]string, 0, len(v))
		out = append(out, v...)
		return out
	}
	return []string{}
}

// Terms returns the lowercased name followed by its synonyms, deduplicated.
func Terms(name, slug string) []string {
	out := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(name)
	for _, syn := range GetSynonyms(slug) {
		add(syn)
	}
	// "Node JS" and "NodeJS" name the same skill.
	if compact := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", ""); compact != "" {
		for _, syn := range GetSynonyms(compact) {
			add(syn)
		}
	}

	if len(out) > maxTerms {
		out = out[:maxTerms]
	}
	return out
}
