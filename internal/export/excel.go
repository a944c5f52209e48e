// Package export renders ranked match results as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"talent-match/internal/domain/matching"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	RankedSheet  = "Ranked Candidates"
)

type ReportRow struct {
	Rank     int
	FullName string
	Email    string
	matching.MatchScore
}

type Report struct {
	JobID       uuid.UUID
	JobTitle    string
	Location    string
	GeneratedAt time.Time
	Stats       repository.MatchStats
	Rows        []ReportRow
}

var rankedHeaders = []string{
	"Rank", "Candidate", "Email", "Total", "Skills", "Experience", "Education", "Location", "Salary", "Qualified",
}

// WriteExcel writes the report as an .xlsx workbook with a summary and a ranked sheet.
func WriteExcel(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(RankedSheet); err != nil {
		return err
	}

	if err := writeSummary(f, r); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeRanked(f, r.Rows); err != nil {
		return fmt.Errorf("ranked sheet: %w", err)
	}

	return f.Write(w)
}

func writeSummary(f *excelize.File, r Report) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	_ = f.SetColWidth(SummarySheet, "A", "A", 24)
	_ = f.SetColWidth(SummarySheet, "B", "B", 48)

	if err := f.MergeCell(SummarySheet, "A1", "B1"); err != nil {
		return err
	}
	_ = f.SetCellValue(SummarySheet, "A1", "Match report")
	_ = f.SetCellStyle(SummarySheet, "A1", "B1", titleStyle)

	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	s := r.Stats
	rows := [][2]any{
		{"Job", r.JobTitle},
		{"Job ID", r.JobID.String()},
		{"Location", r.Location},
		{"Generated", generated.UTC().Format(time.RFC3339)},
		{"Candidates scored", s.TotalMatches},
		{"Qualified", s.QualifiedCount},
		{"Excellent (>= 80)", s.Excellent},
		{"Good (60-80)", s.Good},
		{"Fair (< 60)", s.Fair},
		{"Average total", s.AvgTotal},
		{"Average skills", s.AvgSkills},
		{"Average experience", s.AvgExperience},
		{"Average education", s.AvgEducation},
		{"Average location", s.AvgLocation},
		{"Average salary", s.AvgSalary},
	}
	for i, kv := range rows {
		row := i + 3
		label := fmt.Sprintf("A%d", row)
		_ = f.SetCellValue(SummarySheet, label, kv[0])
		_ = f.SetCellStyle(SummarySheet, label, label, labelStyle)
		_ = f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", row), kv[1])
	}
	return nil
}

func writeRanked(f *excelize.File, rows []ReportRow) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	bandStyles := map[string]int{}
	for band, color := range map[string]string{"excellent": "C6EFCE", "good": "FFEB9C", "fair": "FFC7CE"} {
		id, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: border,
		})
		if err != nil {
			return err
		}
		bandStyles[band] = id
	}

	_ = f.SetColWidth(RankedSheet, "A", "A", 8)
	_ = f.SetColWidth(RankedSheet, "B", "C", 28)
	_ = f.SetColWidth(RankedSheet, "D", "J", 12)

	for col, h := range rankedHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		_ = f.SetCellValue(RankedSheet, cell, h)
		_ = f.SetCellStyle(RankedSheet, cell, cell, headerStyle)
	}
	if err := f.SetPanes(RankedSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 2
		name := r.FullName
		if name == "" {
			name = r.CandidateID.String()
		}
		qualified := "no"
		if r.IsQualified {
			qualified = "yes"
		}
		values := []any{
			r.Rank, name, r.Email, r.TotalScore, r.SkillsScore, r.ExperienceScore,
			r.EducationScore, r.LocationScore, r.SalaryScore, qualified,
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(RankedSheet, start, &values); err != nil {
			return err
		}
		end, _ := excelize.CoordinatesToCellName(len(values), row)
		_ = f.SetCellStyle(RankedSheet, start, end, bandStyles[Band(r.TotalScore)])
	}
	return nil
}

// Band names the score bucket used by the stats: excellent >= 80, good >= 60, fair below.
func Band(total float64) string {
	switch {
	case total >= 80:
		return "excellent"
	case total >= 60:
		return "good"
	default:
		return "fair"
	}
}
