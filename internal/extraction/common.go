package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"talent-match/internal/domain/profile"
)

const (
	maxPlausibleYears  = 50
	maxDateRangeYears  = 40
	earliestCareerYear = 1990
)

var (
	yearsThenExperienceRe = regexp.MustCompile(`(\d+)\+?\s*(?:năm|years?)\s*(?:kinh nghiệm|experience|làm việc|work)`)
	experienceThenYearsRe = regexp.MustCompile(`(?:kinh nghiệm|experience).*?(\d+)\+?\s*(?:năm|years?)`)
	dateRangeRe           = regexp.MustCompile(`(\d{4})\s*[-–—]\s*(\d{4}|present|now|hiện tại|nay)`)
)

// experienceYears takes the larger of explicitly stated years and the capped sum of
// dated employment ranges. lower must be lowercased.
func experienceYears(lower string, currentYear int) float64 {
	stated := 0
	for _, re := range []*regexp.Regexp{yearsThenExperienceRe, experienceThenYearsRe} {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n > stated && n < maxPlausibleYears {
				stated = n
			}
		}
	}

	fromDates := 0
	for _, m := range dateRangeRe.FindAllStringSubmatch(lower, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := currentYear
		if n, err := strconv.Atoi(m[2]); err == nil {
			end = n
		}
		span := end - start
		if span > 0 && span < maxPlausibleYears && start >= earliestCareerYear {
			fromDates += span
		}
	}
	if fromDates > maxDateRangeYears {
		fromDates = maxDateRangeYears
	}

	if fromDates > stated {
		return float64(fromDates)
	}
	return float64(stated)
}

type keywordLevel struct {
	level    profile.EducationLevel
	keywords []string
}

// Highest degree first; the first keyword found wins.
var educationKeywords = []keywordLevel{
	{profile.EducationPhD, []string{"tiến sĩ", "tiến sỹ", "phd", "ph.d", "doctorate"}},
	{profile.EducationMaster, []string{"thạc sĩ", "thạc sỹ", "master", "cao học"}},
	{profile.EducationBachelor, []string{"đại học", "bachelor", "cử nhân", "đh "}},
	{profile.EducationAssociate, []string{"cao đẳng", "associate", "cđ "}},
	{profile.EducationHighSchool, []string{"trung học", "phổ thông", "high school", "thpt"}},
}

// educationLevel returns the most senior credential mentioned and the line it was found on.
func educationLevel(text string) (profile.EducationLevel, string) {
	lower := strings.ToLower(text)
	for _, kl := range educationKeywords {
		for _, kw := range kl.keywords {
			idx := strings.Index(lower, kw)
			if idx < 0 {
				continue
			}
			return kl.level, lineAt(text, lower, idx)
		}
	}
	return profile.EducationOther, ""
}

// lineAt returns the line of text containing byte offset idx of lower. Lowercasing
// can change byte lengths, so the line is located by counting newlines.
func lineAt(text, lower string, idx int) string {
	n := strings.Count(lower[:idx], "\n")
	lines := strings.Split(text, "\n")
	if n >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[n])
}

var (
	emailRe         = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe         = regexp.MustCompile(`(?:\+84|84|0)[\s.-]?\d{2,3}[\s.-]?\d{3}[\s.-]?\d{3,4}`)
	phoneFallbackRe = regexp.MustCompile(`\d{10,11}`)
	phoneSepRe      = regexp.MustCompile(`[\s.-]`)
)

func email(text string) string {
	return emailRe.FindString(text)
}

func phone(text string) string {
	for _, re := range []*regexp.Regexp{phoneRe, phoneFallbackRe} {
		if m := re.FindString(text); m != "" {
			return phoneSepRe.ReplaceAllString(m, "")
		}
	}
	return ""
}

type city struct {
	name     string
	keywords []string
}

var cities = []city{
	{"Hà Nội", []string{"hà nội", "hanoi", "ha noi"}},
	{"Hồ Chí Minh", []string{"hồ chí minh", "ho chi minh", "hcm", "saigon", "sài gòn"}},
	{"Đà Nẵng", []string{"đà nẵng", "da nang", "danang"}},
	{"Hải Phòng", []string{"hải phòng", "hai phong"}},
	{"Cần Thơ", []string{"cần thơ", "can tho"}},
}

func location(lower string) string {
	for _, c := range cities {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return ""
}

func containsAny(lower string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
