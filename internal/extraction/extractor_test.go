package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-match/internal/domain/profile"
	"talent-match/internal/domain/skill"
)

type staticSkills []skill.Entry

func (s staticSkills) Skills(context.Context) []skill.Entry { return s }

func taxonomy(names ...string) staticSkills {
	out := make(staticSkills, 0, len(names))
	for _, n := range names {
		out = append(out, skill.Entry{Name: n, Slug: skill.Slugify(n)})
	}
	return out
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

func slugs[T any](items []T, ref func(T) profile.SkillRef) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, ref(it).Slug)
	}
	return out
}

func candidateSlugs(p profile.CandidateProfile) []string {
	return slugs(p.Skills, func(s profile.CandidateSkill) profile.SkillRef { return s.Skill })
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNormalize(t *testing.T) {
	got := Normalize("  line1\r\nline2\n\n\n\nline3  \n")
	want := "line1\nline2\n\nline3"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCandidate_VietnameseExperienceAndSkills(t *testing.T) {
	e := New(taxonomy("Python", "Java", "JavaScript"), WithClock(fixedClock))

	got, err := e.Candidate(context.Background(), "5 năm kinh nghiệm Python, Java")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s := candidateSlugs(got); !equalStrings(s, []string{"java", "python"}) {
		t.Fatalf("expected {java, python}, got %v", s)
	}
	if got.TotalExperienceYears != 5 {
		t.Fatalf("expected 5 years, got %v", got.TotalExperienceYears)
	}
	if got.Confidence != profile.ConfidenceRuleBased {
		t.Fatalf("expected rule-based confidence, got %v", got.Confidence)
	}
}

func TestCandidate_EmptyText(t *testing.T) {
	e := New(taxonomy("Go"))
	if _, err := e.Candidate(context.Background(), " \r\n\t "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestCandidate_SkillMatchingIsWholeWord(t *testing.T) {
	e := New(taxonomy("Java", "C++", "Node.js", "Go"))

	got, err := e.Candidate(context.Background(), "Skills: JavaScript, C++ and NODE.JS\nGoogle fan")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s := candidateSlugs(got); !equalStrings(s, []string{"c++", "node.js"}) {
		t.Fatalf("expected {c++, node.js}, got %v", s)
	}
}

func TestCandidate_DuplicateSlugsCollapse(t *testing.T) {
	src := staticSkills{
		{Name: "Postgres", Slug: "postgresql"},
		{Name: "PostgreSQL", Slug: "postgresql"},
	}
	got, _ := New(src).Candidate(context.Background(), "Postgres and PostgreSQL")
	if len(got.Skills) != 1 {
		t.Fatalf("expected one skill per slug, got %+v", got.Skills)
	}
}

func TestCandidate_SynonymsResolveToTaxonomySlug(t *testing.T) {
	e := New(taxonomy("Go", "PostgreSQL", "Kubernetes"))

	got, err := e.Candidate(context.Background(), "Golang backend, postgres tuning, some k8s")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s := candidateSlugs(got); !equalStrings(s, []string{"go", "kubernetes", "postgresql"}) {
		t.Fatalf("expected synonyms to map onto slugs, got %v", s)
	}
}

func TestCandidate_Fields(t *testing.T) {
	text := `Nguyễn Văn An
Senior Backend Developer
Email: an.nguyen@example.com | Phone: +84 912 345 678
Địa chỉ: Cầu Giấy, Hà Nội
Học vấn: Cử nhân Công nghệ thông tin, Đại học Bách Khoa
2016 - 2019 ABC Corp
2019 - present XYZ Ltd
Expected salary: 30 - 40 triệu`

	got, err := New(taxonomy("Go"), WithClock(fixedClock)).Candidate(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if got.FullName != "Nguyễn Văn An" {
		t.Fatalf("unexpected name %q", got.FullName)
	}
	if got.CurrentPosition != "Senior Backend Developer" {
		t.Fatalf("unexpected position %q", got.CurrentPosition)
	}
	if got.Email != "an.nguyen@example.com" {
		t.Fatalf("unexpected email %q", got.Email)
	}
	if got.Phone != "+84912345678" {
		t.Fatalf("unexpected phone %q", got.Phone)
	}
	if got.PreferredLocation != "Hà Nội" {
		t.Fatalf("unexpected location %q", got.PreferredLocation)
	}
	if got.EducationLevel != profile.EducationBachelor {
		t.Fatalf("expected bachelor, got %q", got.EducationLevel)
	}
	if got.TotalExperienceYears != 9 {
		t.Fatalf("expected 3+6 years from date ranges, got %v", got.TotalExperienceYears)
	}
	if got.ExpectedSalary.Min == nil || *got.ExpectedSalary.Min != 30 || *got.ExpectedSalary.Max != 40 {
		t.Fatalf("unexpected salary %+v", got.ExpectedSalary)
	}
	if got.ExpectedSalary.Unit != "million" || got.ExpectedSalary.Currency != "VND" {
		t.Fatalf("unexpected salary unit/currency %+v", got.ExpectedSalary)
	}
}

func TestExperienceYears(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "english", text: "3+ years experience in backend", want: 3},
		{name: "experience first", text: "experience: over 7 years", want: 7},
		{name: "stated beats dates", text: "6 years experience\n2020 - 2022", want: 6},
		{name: "dates beat stated", text: "2 years experience\n2010 - 2015\n2015 - 2020", want: 10},
		{name: "ignores implausible", text: "60 years experience", want: 0},
		{name: "ignores old ranges", text: "1980 - 1990", want: 0},
		{name: "caps date sum", text: "1990-2020\n1991-2021", want: 40},
		{name: "vietnamese present", text: "2022 - hiện tại", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := experienceYears(tt.text, 2025); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEducationLevel_HighestFirst(t *testing.T) {
	tests := []struct {
		text string
		want profile.EducationLevel
	}{
		{"Thạc sĩ Khoa học máy tính, Cử nhân CNTT", profile.EducationMaster},
		{"PhD in Physics", profile.EducationPhD},
		{"Tốt nghiệp Cao đẳng FPT", profile.EducationAssociate},
		{"THPT Chu Văn An", profile.EducationHighSchool},
		{"self taught", profile.EducationOther},
	}
	for _, tt := range tests {
		if got, _ := educationLevel(tt.text); got != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.text, tt.want, got)
		}
	}
}

func TestPhone(t *testing.T) {
	tests := map[string]string{
		"call 0912.345.678 now": "0912345678",
		"tel: 84-28-123-4567":   "84281234567",
		"no phone here":         "",
	}
	for in, want := range tests {
		if got := phone(in); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestCandidateFromJSON(t *testing.T) {
	data := []byte(`{
		"full_name": "Tran Thi B",
		"skills": ["Go", {"slug": "sql", "proficiency_level": 4}],
		"total_experience_years": 4.5,
		"education_level": "master",
		"location": "Da Nang",
		"expected_salary_min": 1000,
		"salary_currency": "usd"
	}`)

	got, err := New(nil, WithClock(fixedClock)).CandidateFromJSON(data)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Confidence != profile.ConfidenceStructured {
		t.Fatalf("expected structured confidence, got %v", got.Confidence)
	}
	if len(got.Skills) != 2 || got.Skills[1].ProficiencyLevel != 4 {
		t.Fatalf("unexpected skills %+v", got.Skills)
	}
	if got.EducationLevel != profile.EducationMaster || got.TotalExperienceYears != 4.5 {
		t.Fatalf("unexpected profile %+v", got)
	}
	if got.ExpectedSalary.Currency != "USD" || got.ExpectedSalary.Max != nil {
		t.Fatalf("unexpected salary %+v", got.ExpectedSalary)
	}
	if !got.ParsedAt.Equal(fixedClock()) {
		t.Fatalf("expected injected clock, got %v", got.ParsedAt)
	}

	if _, err := New(nil).CandidateFromJSON([]byte(`{"skills": 3}`)); err == nil {
		t.Fatalf("expected error for malformed skills")
	}
}
