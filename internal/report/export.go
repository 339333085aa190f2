package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"call-auditor-go/internal/types"
)

const (
	SheetSummary    = "Summary"
	SheetScores     = "Scores"
	SheetTranscript = "Transcript"
)

var scoreHeader = []interface{}{"Category", "Item", "Score", "Max Score", "Justification", "Evidence", "Improvement Guidance"}

// Write exports one audit result as an XLSX workbook with a summary sheet,
// one row per scored item and the transcript split into lines.
func Write(path string, res types.AuditResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetScores, SheetTranscript} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}

	if err := writeSummary(f, res, bold); err != nil {
		return err
	}
	if err := writeScores(f, res.ScoredItems, bold); err != nil {
		return err
	}
	if err := writeTranscript(f, res.Transcript); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, res types.AuditResult, bold int) error {
	s := res.Summary
	pass := "FAIL"
	if s.PassStatus {
		pass = "PASS"
	}
	rows := [][]interface{}{
		{"Job ID", res.JobID},
		{"Filename", res.Filename},
		{"Conversation Type", string(s.ConversationType)},
		{"Subject", s.Subject},
		{"Total Score", s.TotalScore},
		{"Max Total Score", s.MaxTotalScore},
		{"Result", pass},
		{"Agent", res.Participants.AgentName},
		{"Customer", res.Participants.CustomerName},
		{"Business", res.Participants.BusinessName},
		{"Transcript Source", res.TranscriptSource},
		{"Placeholder Transcript", res.PlaceholderTranscript},
		{"Processing Time (s)", res.ProcessingTime},
		{"Created At", res.CreatedAt.UTC().Format("2006-01-02 15:04:05")},
		{"Key Strengths", strings.Join(s.KeyStrengths, "\n")},
		{"Areas For Improvement", strings.Join(s.AreasForImprovement, "\n")},
		{"Action Plan", strings.Join(s.ActionPlan, "\n")},
		{"Coaching Summary", res.CoachingSummary},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &r); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(1, len(rows))
	if err := f.SetCellStyle(SheetSummary, "A1", last, bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 24)
}

func writeScores(f *excelize.File, items []types.ScoredItem, bold int) error {
	if err := f.SetSheetRow(SheetScores, "A1", &scoreHeader); err != nil {
		return fmt.Errorf("scores header: %w", err)
	}
	if err := f.SetCellStyle(SheetScores, "A1", "G1", bold); err != nil {
		return err
	}
	for i, it := range items {
		guidance := ""
		if it.ImprovementGuidance != nil {
			guidance = *it.ImprovementGuidance
		}
		row := []interface{}{it.Category, it.Item, it.Score, it.MaxScore, it.Justification, strings.Join(it.Evidence, "\n"), guidance}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetScores, cell, &row); err != nil {
			return fmt.Errorf("scores row %d: %w", i+2, err)
		}
	}
	return f.SetColWidth(SheetScores, "E", "G", 48)
}

func writeTranscript(f *excelize.File, transcript string) error {
	for i, line := range strings.Split(transcript, "\n") {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellStr(SheetTranscript, cell, line); err != nil {
			return fmt.Errorf("transcript line %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(SheetTranscript, "A", "A", 120)
}
