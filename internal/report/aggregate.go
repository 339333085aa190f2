package report

import (
	"fmt"
	"sort"

	"call-auditor-go/internal/types"
)

// Insight summarises a batch of scorecards.
type Insight struct {
	Reports            int                `json:"reports"`
	PassRate           float64            `json:"pass_rate"`
	AverageScore       float64            `json:"average_score"`
	ByConversationType map[string]int     `json:"by_conversation_type"`
	ItemAverages       map[string]float64 `json:"item_averages"`
	Action             ActionCard         `json:"action"`
}

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// weakItemAverage is the per-item average below which coaching is suggested.
const weakItemAverage = 3.0

func Aggregate(cards []Scorecard) Insight {
	ins := Insight{
		Reports:            len(cards),
		ByConversationType: map[string]int{},
		ItemAverages:       map[string]float64{},
	}
	if len(cards) == 0 {
		ins.Action = generate(ins)
		return ins
	}
	passed, total := 0, 0
	itemSum := map[string]int{}
	itemCount := map[string]int{}
	for _, c := range cards {
		if c.Pass {
			passed++
		}
		total += c.TotalScore
		if c.ConversationType != "" {
			ins.ByConversationType[c.ConversationType]++
		}
		for item, score := range c.Items {
			itemSum[item] += score
			itemCount[item]++
		}
	}
	ins.PassRate = float64(passed) / float64(len(cards))
	ins.AverageScore = float64(total) / float64(len(cards))
	for item, n := range itemCount {
		ins.ItemAverages[item] = float64(itemSum[item]) / float64(n)
	}
	ins.Action = generate(ins)
	return ins
}

func generate(ins Insight) ActionCard {
	if ins.Reports == 0 {
		return ActionCard{
			Insight: "No reports to summarise",
			Action:  "Export audits with --export and rerun",
			Impact:  "None",
		}
	}
	items := make([]string, 0, len(ins.ItemAverages))
	for item := range ins.ItemAverages {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := ins.ItemAverages[items[i]], ins.ItemAverages[items[j]]
		if a != b {
			return a < b
		}
		return items[i] < items[j]
	})
	if len(items) > 0 && ins.ItemAverages[items[0]] < weakItemAverage {
		worst := items[0]
		return ActionCard{
			Insight: fmt.Sprintf("%s averages %.1f/%d across %d calls", worst, ins.ItemAverages[worst], types.MaxItemScore, ins.Reports),
			Action:  fmt.Sprintf("Run a focused coaching session on %s", worst),
			Impact:  "Raise the pass rate on the weakest rubric item",
		}
	}
	if ins.AverageScore < types.PassThreshold {
		return ActionCard{
			Insight: fmt.Sprintf("Average score %.0f is below the pass mark of %d", ins.AverageScore, types.PassThreshold),
			Action:  "Review the lowest scoring calls with each agent",
			Impact:  "Lift overall call quality",
		}
	}
	return ActionCard{
		Insight: "No strong weakness detected",
		Action:  "Keep sampling calls",
		Impact:  "Low immediate intervention",
	}
}
