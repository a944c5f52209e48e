package extraction

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"talent-match/internal/domain/profile"
)

const contextWindow = 80

var (
	minExperienceRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:yêu cầu|cần|require|minimum).*?(?:tối thiểu|ít nhất|at least).*?(\d+)\+?\s*(?:năm|years?)`),
		regexp.MustCompile(`(?:tối thiểu|ít nhất|minimum|at least).*?(\d+)\+?\s*(?:năm|years?)`),
		regexp.MustCompile(`(?:yêu cầu|require).*?(\d+)\s*[-–]\s*\d+\s*(?:năm|years?)`),
		regexp.MustCompile(`(\d+)\+\s*(?:năm|years?).*?(?:kinh nghiệm|experience)`),
		regexp.MustCompile(`(\d+)\s*(?:năm|years?).*?(?:trở lên|or more|above)`),
		regexp.MustCompile(`(\d+)\s*(?:năm|years?)\s*(?:kinh nghiệm|experience|of experience)`),
	}
	experienceRangeRe = regexp.MustCompile(`(\d+)\s*[-–]\s*(\d+)\s*(?:năm|years?).*?(?:kinh nghiệm|experience)`)

	requiredEducationRes = []struct {
		level profile.EducationLevel
		re    *regexp.Regexp
	}{
		{profile.EducationPhD, regexp.MustCompile(`(?:yêu cầu|cần|require).*?(?:tiến sĩ|phd)`)},
		{profile.EducationMaster, regexp.MustCompile(`(?:yêu cầu|cần|require).*?(?:thạc sĩ|master)`)},
		{profile.EducationBachelor, regexp.MustCompile(`(?:yêu cầu|cần|require).*?(?:đại học|bachelor|cử nhân)`)},
		{profile.EducationAssociate, regexp.MustCompile(`(?:yêu cầu|cần|require).*?(?:cao đẳng|associate)`)},
		{profile.EducationPhD, regexp.MustCompile(`tiến sĩ|phd`)},
		{profile.EducationMaster, regexp.MustCompile(`thạc sĩ|master's|master degree`)},
		{profile.EducationBachelor, regexp.MustCompile(`đại học|bachelor`)},
	}

	fullTimeRe = regexp.MustCompile(`full[- ]?time|toàn thời gian`)
	partTimeRe = regexp.MustCompile(`part[- ]?time|bán thời gian`)
)

var optionalMarkers = []string{
	"nice to have", "nice-to-have", "is a plus", "plus point", "preferred", "bonus point",
	"ưu tiên", "lợi thế", "điểm cộng",
}

var jobLevels = []struct {
	value    string
	keywords []string
}{
	{"senior", []string{"senior", "cao cấp", "chuyên gia", "expert"}},
	{"middle", []string{"middle", "trung cấp", "mid-level"}},
	{"junior", []string{"junior", "sơ cấp", "entry-level"}},
	{"intern", []string{"intern", "thực tập sinh", "internship"}},
	{"fresher", []string{"fresher", "mới ra trường"}},
}

var benefitKeywords = []struct {
	value    string
	keywords []string
}{
	{"insurance", []string{"bảo hiểm", "insurance", "bhxh", "bhyt"}},
	{"bonus", []string{"thưởng", "bonus", "13th month"}},
	{"training", []string{"đào tạo", "training", "học tập"}},
	{"team_building", []string{"du lịch", "team building", "team-building", "outing"}},
	{"laptop", []string{"laptop", "máy tính", "macbook"}},
	{"remote", []string{"remote", "wfh", "work from home", "làm việc từ xa"}},
	{"gym", []string{"gym", "fitness", "thể thao"}},
	{"paid_leave", []string{"nghỉ phép", "annual leave", "paid leave"}},
}

// Job extracts a job profile from a job description.
func (e *Extractor) Job(ctx context.Context, raw string) (profile.JobProfile, error) {
	text := Normalize(raw)
	if text == "" {
		return profile.JobProfile{}, ErrEmptyText
	}
	lower := strings.ToLower(text)

	hits := e.matchSkills(ctx, lower)
	reqs := make([]profile.JobSkillRequirement, 0, len(hits))
	for _, h := range hits {
		reqs = append(reqs, profile.JobSkillRequirement{
			Skill:         refOf(h.entry),
			IsRequired:    !optionalByContext(lower, h.index, h.length),
			RequiredLevel: profile.DefaultRequiredLevel,
			Weight:        profile.DefaultSkillWeight,
		})
	}

	benefits := jobBenefits(lower)

	return profile.JobProfile{
		Title:                  firstLine(text),
		RequiredSkills:         reqs,
		MinExperienceYears:     minExperience(lower),
		MaxExperienceYears:     maxExperience(lower),
		RequiredEducationLevel: requiredEducation(lower),
		Location:               location(lower),
		IsRemote:               hasValue(benefits, "remote"),
		Salary:                 salaryRange(lower),
		JobLevel:               jobLevel(lower),
		JobType:                jobType(lower),
		Benefits:               benefits,
		Confidence:             profile.ConfidenceRuleBased,
		ParsedAt:               e.now().UTC(),
	}, nil
}

// optionalByContext looks for "nice to have" style markers before the first mention,
// within the same paragraph, and after it on the same line.
func optionalByContext(lower string, idx, nameLen int) bool {
	start := idx - contextWindow
	if start < 0 {
		start = 0
	}
	if p := strings.LastIndex(lower[start:idx], "\n\n"); p >= 0 {
		start += p + 2
	}

	end := idx + nameLen + contextWindow
	if end > len(lower) {
		end = len(lower)
	}
	if nl := strings.Index(lower[idx:end], "\n"); nl >= 0 {
		end = idx + nl
	}

	return containsAny(lower[start:end], optionalMarkers...)
}

func minExperience(lower string) float64 {
	for _, re := range minExperienceRes {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 0 && n < maxPlausibleYears {
			return float64(n)
		}
	}
	return 0
}

func maxExperience(lower string) *float64 {
	m := experienceRangeRe.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 || n >= maxPlausibleYears {
		return nil
	}
	return profile.Float(float64(n))
}

func requiredEducation(lower string) profile.EducationLevel {
	for _, r := range requiredEducationRes {
		if r.re.MatchString(lower) {
			return r.level
		}
	}
	return ""
}

func jobLevel(lower string) string {
	for _, l := range jobLevels {
		if containsAny(lower, l.keywords...) {
			return l.value
		}
	}
	return "entry"
}

func jobType(lower string) string {
	switch {
	case fullTimeRe.MatchString(lower):
		return "full-time"
	case partTimeRe.MatchString(lower):
		return "part-time"
	case containsAny(lower, "contract", "hợp đồng"):
		return "contract"
	case containsAny(lower, "freelance", "tự do"):
		return "freelance"
	case containsAny(lower, "intern", "thực tập"):
		return "internship"
	default:
		return "full-time"
	}
}

func jobBenefits(lower string) []string {
	out := make([]string, 0)
	for _, b := range benefitKeywords {
		if containsAny(lower, b.keywords...) {
			out = append(out, b.value)
		}
	}
	return out
}

func firstLine(text string) string {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func hasValue(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
