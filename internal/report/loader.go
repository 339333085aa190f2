package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Scorecard is the part of an exported report needed for team summaries.
type Scorecard struct {
	JobID            string
	Filename         string
	ConversationType string
	TotalScore       int
	Pass             bool
	Items            map[string]int
}

// Load reads a workbook produced by Write. Score columns are located by
// header so reports edited by hand still load.
func Load(path string) (Scorecard, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Scorecard{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	summary, err := f.GetRows(SheetSummary)
	if err != nil {
		return Scorecard{}, fmt.Errorf("read %s: %w", SheetSummary, err)
	}
	sc := Scorecard{Items: map[string]int{}}
	for _, r := range summary {
		if len(r) < 2 {
			continue
		}
		v := strings.TrimSpace(r[1])
		switch strings.ToLower(strings.TrimSpace(r[0])) {
		case "job id":
			sc.JobID = v
		case "filename":
			sc.Filename = v
		case "conversation type":
			sc.ConversationType = v
		case "total score":
			sc.TotalScore, _ = strconv.Atoi(v)
		case "result":
			sc.Pass = strings.EqualFold(v, "pass")
		}
	}

	rows, err := f.GetRows(SheetScores)
	if err != nil {
		return Scorecard{}, fmt.Errorf("read %s: %w", SheetScores, err)
	}
	if len(rows) == 0 {
		return sc, nil
	}
	itemIdx, scoreIdx := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "item":
			itemIdx = i
		case "score":
			scoreIdx = i
		}
	}
	if itemIdx == -1 || scoreIdx == -1 {
		return Scorecard{}, fmt.Errorf("%s: missing item or score column", path)
	}
	for _, r := range rows[1:] {
		if itemIdx >= len(r) || scoreIdx >= len(r) {
			continue
		}
		score, err := strconv.Atoi(strings.TrimSpace(r[scoreIdx]))
		if err != nil {
			continue
		}
		sc.Items[strings.TrimSpace(r[itemIdx])] = score
	}
	return sc, nil
}
