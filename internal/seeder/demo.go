// Package seeder loads demo job descriptions and candidate documents through the
// extraction pipeline so a fresh database has something to match.
package seeder

import (
	"context"
	"fmt"
	"strings"

	"talent-match/internal/domain/profile"

	"github.com/google/uuid"
)

// Parser is the subset of the extraction usecase the demo data goes through.
type Parser interface {
	ParseJob(ctx context.Context, jobID uuid.UUID, rawText string) (profile.JobProfile, error)
	ParseCandidateJSON(ctx context.Context, candidateID uuid.UUID, data []byte) (profile.CandidateProfile, error)
}

var namespace = uuid.MustParse("6f1f6a52-3d8e-4c1b-9a57-0c3f7d2b9e41")

// SeedID derives a stable id, so re-seeding overwrites instead of duplicating.
func SeedID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(kind+":"+strings.ToLower(key)))
}

type demoJob struct {
	Key  string
	Text string
}

var demoJobs = []demoJob{
	{
		Key: "backend-go",
		Text: `Backend Engineer (Go)
Location: Ho Chi Minh City
Salary: 1500 - 2500 USD
Requirements:
- At least 3 years of experience with Go
- Strong PostgreSQL and Docker
- Bachelor degree in Computer Science
Nice to have:
- Kubernetes, Redis
Benefits: insurance, 13th month bonus, laptop. Full-time.`,
	},
	{
		Key: "fullstack",
		Text: `Fullstack Engineer (React + Node)
Địa điểm: Hà Nội
Yêu cầu:
- Tối thiểu 2 năm kinh nghiệm với JavaScript, TypeScript, React
- Kinh nghiệm NodeJS và MongoDB
Ưu tiên: Docker
Quyền lợi: bảo hiểm, du lịch hàng năm`,
	},
	{
		Key: "data-engineer",
		Text: `Junior Data Engineer
Location: Remote
Requirements:
- 1+ years experience with Python and PostgreSQL
- Git
Preferred: Java
Part-time`,
	},
}

var demoCandidates = []struct {
	Key string
	Doc string
}{
	{Key: "an", Doc: `{"full_name":"Nguyen Van An","email":"an@example.com","skills":[{"name":"Go","level":4},{"name":"PostgreSQL","level":4},{"name":"Docker","level":3}],"total_experience_years":5,"education_level":"bachelor","location":"Ho Chi Minh","expected_salary_min":1800,"expected_salary_max":2200,"salary_currency":"USD"}`},
	{Key: "binh", Doc: `{"full_name":"Tran Thi Binh","email":"binh@example.com","skills":[{"name":"JavaScript","level":5},{"name":"TypeScript","level":4},{"name":"React","level":4},{"name":"NodeJS","level":3}],"total_experience_years":3,"education_level":"bachelor","location":"Ha Noi"}`},
	{Key: "cuong", Doc: `{"full_name":"Le Van Cuong","email":"cuong@example.com","skills":["Python","PostgreSQL","Git"],"total_experience_years":1,"education_level":"associate","location":"Da Nang"}`},
	{Key: "dung", Doc: `{"full_name":"Pham Dung","email":"dung@example.com","skills":[{"name":"Java","level":4},{"name":"Docker","level":2},{"name":"Git","level":3}],"total_experience_years":7,"education_level":"master","location":"Remote"}`},
}

type Result struct {
	Jobs       []uuid.UUID
	Candidates []uuid.UUID
}

// Demo parses every demo fixture. The first failure stops the run.
func Demo(ctx context.Context, p Parser) (Result, error) {
	var res Result
	for _, j := range demoJobs {
		id := SeedID("job", j.Key)
		if _, err := p.ParseJob(ctx, id, j.Text); err != nil {
			return res, fmt.Errorf("seed job %s: %w", j.Key, err)
		}
		res.Jobs = append(res.Jobs, id)
	}
	for _, c := range demoCandidates {
		id := SeedID("candidate", c.Key)
		if _, err := p.ParseCandidateJSON(ctx, id, []byte(c.Doc)); err != nil {
			return res, fmt.Errorf("seed candidate %s: %w", c.Key, err)
		}
		res.Candidates = append(res.Candidates, id)
	}
	return res, nil
}
