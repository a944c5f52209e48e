package extraction

import (
	"context"
	"testing"

	"talent-match/internal/domain/profile"
)

const sampleJD = `Senior Golang Developer
Địa điểm: Quận 1, TP. Hồ Chí Minh
Mức lương: 25 - 35 triệu

Yêu cầu:
- Tối thiểu 3 năm kinh nghiệm với Go
- Thành thạo PostgreSQL
- Tốt nghiệp Đại học chuyên ngành CNTT

Nice to have:
- Docker, Kubernetes

Quyền lợi:
- Bảo hiểm đầy đủ, thưởng tháng 13
- Làm việc từ xa 2 ngày/tuần
- Full-time`

func TestJob_ExtractsRequirementsAndContext(t *testing.T) {
	e := New(taxonomy("Go", "PostgreSQL", "Docker", "Kubernetes", "Java"), WithClock(fixedClock))

	got, err := e.Job(context.Background(), sampleJD)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	required := map[string]bool{}
	for _, r := range got.RequiredSkills {
		required[r.Skill.Slug] = r.IsRequired
		if r.RequiredLevel != profile.DefaultRequiredLevel || r.Weight != profile.DefaultSkillWeight {
			t.Fatalf("unexpected defaults on %+v", r)
		}
	}
	want := map[string]bool{"go": true, "postgresql": true, "docker": false, "kubernetes": false}
	if len(required) != len(want) {
		t.Fatalf("expected %v, got %v", want, required)
	}
	for slug, isReq := range want {
		if got, ok := required[slug]; !ok || got != isReq {
			t.Fatalf("%s: expected required=%v, got %v (present=%v)", slug, isReq, got, ok)
		}
	}

	if got.Title != "Senior Golang Developer" {
		t.Fatalf("unexpected title %q", got.Title)
	}
	if got.MinExperienceYears != 3 {
		t.Fatalf("expected min 3 years, got %v", got.MinExperienceYears)
	}
	if got.MaxExperienceYears != nil {
		t.Fatalf("expected open-ended max, got %v", *got.MaxExperienceYears)
	}
	if got.RequiredEducationLevel != profile.EducationBachelor {
		t.Fatalf("expected bachelor, got %q", got.RequiredEducationLevel)
	}
	if got.Location != "Hồ Chí Minh" {
		t.Fatalf("unexpected location %q", got.Location)
	}
	if got.JobLevel != "senior" || got.JobType != "full-time" {
		t.Fatalf("unexpected level/type %q/%q", got.JobLevel, got.JobType)
	}
	if !got.IsRemote {
		t.Fatalf("expected remote flag from benefits")
	}
	if got.Salary.Min == nil || *got.Salary.Min != 25 || *got.Salary.Max != 35 || got.Salary.Currency != "VND" {
		t.Fatalf("unexpected salary %+v", got.Salary)
	}
	if !equalStrings(got.Benefits, []string{"insurance", "bonus", "remote"}) {
		t.Fatalf("unexpected benefits %v", got.Benefits)
	}
}

func TestMinMaxExperience(t *testing.T) {
	tests := []struct {
		text    string
		wantMin float64
		wantMax float64
	}{
		{"require at least 2 years of java", 2, 0},
		{"yêu cầu 2-4 năm kinh nghiệm", 2, 4},
		{"5+ years of professional experience", 5, 0},
		{"3 năm trở lên", 3, 0},
		{"no requirement stated", 0, 0},
	}
	for _, tt := range tests {
		if got := minExperience(tt.text); got != tt.wantMin {
			t.Fatalf("%q: expected min %v, got %v", tt.text, tt.wantMin, got)
		}
		max := maxExperience(tt.text)
		if tt.wantMax == 0 && max != nil {
			t.Fatalf("%q: expected no max, got %v", tt.text, *max)
		}
		if tt.wantMax != 0 && (max == nil || *max != tt.wantMax) {
			t.Fatalf("%q: expected max %v, got %v", tt.text, tt.wantMax, max)
		}
	}
}

func TestSalaryRange(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		min, max   float64
		currency   string
		unit       string
		negotiable bool
	}{
		{name: "million range", text: "lương 15 - 20 triệu", min: 15, max: 20, currency: "VND", unit: "million"},
		{name: "tr abbreviation", text: "thu nhập 15-25tr/tháng", min: 15, max: 25, currency: "VND", unit: "million"},
		{name: "vnd range beside dollar bonus", text: "lương 15 - 20 triệu\nthưởng thêm $500 mỗi dự án", min: 15, max: 20, currency: "VND", unit: "million"},
		{name: "usd range beside million allowance", text: "1000-2000 usd, phụ cấp 2 triệu", min: 1000, max: 2000, currency: "USD"},
		{name: "dollar range", text: "salary: $1,000 - $1,500", min: 1000, max: 1500, currency: "USD"},
		{name: "usd suffix", text: "1000-2000 usd", min: 1000, max: 2000, currency: "USD"},
		{name: "single amount", text: "mức lương: 800 usd", min: 800, currency: "USD"},
		{name: "negotiable", text: "lương thỏa thuận", negotiable: true},
		{name: "experience range is not salary", text: "2-5 năm kinh nghiệm, 3 năm trở lên"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := salaryRange(tt.text)
			if got.Negotiable != tt.negotiable {
				t.Fatalf("expected negotiable=%v, got %+v", tt.negotiable, got)
			}
			if tt.min == 0 {
				if got.Min != nil {
					t.Fatalf("expected no min, got %v", *got.Min)
				}
				return
			}
			if got.Min == nil || *got.Min != tt.min {
				t.Fatalf("expected min %v, got %+v", tt.min, got)
			}
			if tt.max == 0 && got.Max != nil {
				t.Fatalf("expected no max, got %v", *got.Max)
			}
			if tt.max != 0 && (got.Max == nil || *got.Max != tt.max) {
				t.Fatalf("expected max %v, got %+v", tt.max, got)
			}
			if got.Currency != tt.currency {
				t.Fatalf("expected currency %q, got %q", tt.currency, got.Currency)
			}
			if got.Unit != tt.unit {
				t.Fatalf("expected unit %q, got %q", tt.unit, got.Unit)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := map[string]float64{"1,500": 1500, "1.500.000": 1500000, "1,5": 1.5, "12.5": 12.5, "30": 30}
	for in, want := range tests {
		if got, ok := parseAmount(in); !ok || got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestJobTypeAndLevelDefaults(t *testing.T) {
	if got := jobType("hợp đồng 6 tháng"); got != "contract" {
		t.Fatalf("expected contract, got %q", got)
	}
	if got := jobType("nothing"); got != "full-time" {
		t.Fatalf("expected full-time default, got %q", got)
	}
	if got := jobLevel("thực tập sinh"); got != "intern" {
		t.Fatalf("expected intern, got %q", got)
	}
	if got := jobLevel("backend role"); got != "entry" {
		t.Fatalf("expected entry default, got %q", got)
	}
}
