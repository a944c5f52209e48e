package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"talent-match/internal/domain/profile"
)

const (
	amount      = `(\d+(?:[.,]\d+)*)`
	millionUnit = `(?:triệu|million|tr(?:[^\p{L}]|$))`
	anyUnit     = `(?:triệu|million|tr(?:[^\p{L}]|$)|usd|\$)`
)

var (
	salaryRangeMillionRe = regexp.MustCompile(amount + `\s*[-–]\s*` + amount + `\s*` + millionUnit)
	salaryRangeUSDRe     = regexp.MustCompile(amount + `\s*[-–]\s*` + amount + `\s*(?:usd|\$)`)
	salaryRangeDollarRe  = regexp.MustCompile(`\$\s*` + amount + `\s*[-–]\s*\$?\s*` + amount)
	salarySingleRe       = regexp.MustCompile(`(?:lương|salary|thu nhập).*?` + amount + `\s*` + anyUnit)

	thousandsRe = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)
)

// salaryRange reads the first salary expression in lower. Numbers need a currency or
// unit keyword next to them so experience ranges like "2-5 năm" are not taken.
func salaryRange(lower string) profile.SalaryRange {
	var (
		out        profile.SalaryRange
		matched    string
		inMillions bool
	)

	for _, re := range []*regexp.Regexp{salaryRangeMillionRe, salaryRangeUSDRe, salaryRangeDollarRe, salarySingleRe} {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		matched, inMillions = m[0], re == salaryRangeMillionRe
		if v, ok := parseAmount(m[1]); ok {
			out.Min = profile.Float(v)
		}
		if len(m) > 2 && m[2] != "" {
			if v, ok := parseAmount(m[2]); ok {
				out.Max = profile.Float(v)
			}
		}
		if out.Min != nil && out.Max != nil && *out.Max < *out.Min {
			out.Min, out.Max = out.Max, out.Min
		}
		break
	}

	if out.IsEmpty() {
		if containsAny(lower, "thỏa thuận", "thoả thuận", "negotiable", "cạnh tranh", "competitive") {
			out.Negotiable = true
		}
		return out
	}

	// Currency and unit come from the matched expression, not the rest of the text.
	out.Currency = "VND"
	if containsAny(matched, "usd", "$") {
		out.Currency = "USD"
	}
	if inMillions || containsAny(matched, "triệu", "million") {
		out.Unit = "million"
	}
	return out
}

// parseAmount accepts "1,500", "1.500.000" (thousands separators) and "1,5" / "1.5".
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if thousandsRe.MatchString(s) {
		s = strings.NewReplacer(",", "", ".", "").Replace(s)
	} else {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
