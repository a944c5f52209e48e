package extraction

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/skill"
	"talent-match/internal/search"
)

var ErrEmptyText = errors.New("text is empty")

// SkillSource supplies the taxonomy skills are matched against.
type SkillSource interface {
	Skills(ctx context.Context) []skill.Entry
}

// Extractor turns free text into candidate and job profiles with rule-based patterns.
// It is safe for concurrent use.
type Extractor struct {
	skills SkillSource
	now    func() time.Time

	patterns sync.Map // lowercased skill name -> *regexp.Regexp
}

type Option func(*Extractor)

func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

func New(skills SkillSource, opts ...Option) *Extractor {
	e := &Extractor{skills: skills, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

var (
	crlfRe       = regexp.MustCompile(`\r\n?`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// Normalize unifies line endings, collapses runs of blank lines and trims.
func Normalize(text string) string {
	text = crlfRe.ReplaceAllString(text, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

type skillHit struct {
	entry  skill.Entry
	index  int
	length int
}

// matchSkills returns taxonomy entries whose name or a synonym appears in lower as a whole word,
// one per slug, ordered by slug.
func (e *Extractor) matchSkills(ctx context.Context, lower string) []skillHit {
	if e.skills == nil {
		return nil
	}

	bySlug := map[string]skillHit{}
	for _, entry := range e.skills.Skills(ctx) {
		slug := entry.Slug
		if slug == "" {
			slug = skill.Slugify(entry.Name)
		}
		if slug == "" {
			continue
		}
		entry.Slug = slug

		// The earliest spelling wins, so context checks look at the first mention.
		for _, term := range search.Terms(entry.Name, slug) {
			loc := e.pattern(term).FindStringSubmatchIndex(lower)
			if loc == nil {
				continue
			}
			if prev, ok := bySlug[slug]; ok && prev.index <= loc[4] {
				continue
			}
			bySlug[slug] = skillHit{entry: entry, index: loc[4], length: loc[5] - loc[4]}
		}
	}

	out := make([]skillHit, 0, len(bySlug))
	for _, h := range bySlug {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].entry.Slug < out[j].entry.Slug })
	return out
}

func (e *Extractor) pattern(name string) *regexp.Regexp {
	if re, ok := e.patterns.Load(name); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(^|[^\p{L}\p{N}])(` + regexp.QuoteMeta(name) + `)([^\p{L}\p{N}]|$)`)
	actual, _ := e.patterns.LoadOrStore(name, re)
	return actual.(*regexp.Regexp)
}

func refOf(entry skill.Entry) profile.SkillRef {
	return profile.SkillRef{ID: entry.ID, Name: entry.Name, Slug: entry.Slug}
}
