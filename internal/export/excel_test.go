package export

import (
	"bytes"
	"testing"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

func TestWriteExcel(t *testing.T) {
	jobID := uuid.New()
	anonymous := uuid.New()
	report := Report{
		JobID:       jobID,
		JobTitle:    "Senior Golang Developer",
		GeneratedAt: time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
		Stats:       repository.MatchStats{JobID: jobID, TotalMatches: 2, QualifiedCount: 1, AvgTotal: 72.5},
		Rows: []ReportRow{
			{Rank: 1, FullName: "Nguyen Van A", MatchScore: matching.MatchScore{TotalScore: 91, IsQualified: true}},
			{Rank: 2, MatchScore: matching.MatchScore{CandidateID: anonymous, TotalScore: 54}},
		},
	}

	var buf bytes.Buffer
	if err := WriteExcel(&buf, report); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != SummarySheet || got[1] != RankedSheet {
		t.Fatalf("unexpected sheets %v", got)
	}
	if v, _ := f.GetCellValue(SummarySheet, "B3"); v != "Senior Golang Developer" {
		t.Fatalf("expected job title, got %q", v)
	}

	rows, err := f.GetRows(RankedSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Rank" || rows[1][1] != "Nguyen Van A" || rows[1][9] != "yes" {
		t.Fatalf("unexpected first row %v", rows[1])
	}
	if rows[2][1] != anonymous.String() || rows[2][3] != "54" {
		t.Fatalf("expected id fallback for unnamed candidate, got %v", rows[2])
	}
}

func TestBand(t *testing.T) {
	for total, want := range map[float64]string{100: "excellent", 80: "excellent", 79.99: "good", 60: "good", 59.5: "fair", 0: "fair"} {
		if got := Band(total); got != want {
			t.Fatalf("Band(%v) = %q, want %q", total, got, want)
		}
	}
}
