package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"call-auditor-go/internal/types"
)

const notMentioned = "Not mentioned"

// rawAnalysis is the JSON shape the model is asked to return.
type rawAnalysis struct {
	BusinessName     string    `json:"business_name"`
	CustomerName     string    `json:"customer_name"`
	AgentName        string    `json:"agent_name"`
	ConversationType string    `json:"conversation_type"`
	Subject          string    `json:"subject"`
	ScoredItems      []rawItem `json:"scored_items"`
	KeyStrengths     []string  `json:"key_strengths"`
	AreasToImprove   []string  `json:"areas_for_improvement"`
	ActionPlan       []string  `json:"action_plan"`
	CoachingSummary  string    `json:"coaching_summary"`
}

type rawItem struct {
	Category            string          `json:"category"`
	Item                string          `json:"item"`
	Score               json.Number     `json:"score"`
	Justification       string          `json:"justification"`
	Evidence            json.RawMessage `json:"evidence"`
	ImprovementGuidance *string         `json:"improvement_guidance"`
}

var reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// parseAnalysis turns model output into an AnalyzerOutcome. Scores are clamped
// to 1..5 and the summary totals are always recomputed from the items.
func parseAnalysis(text, transcript string) (types.AnalyzerOutcome, error) {
	raw := extractJSON(cleanJSONBlock(text))
	if raw == "" {
		return types.AnalyzerOutcome{}, fmt.Errorf("no JSON found in model output")
	}
	var a rawAnalysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		fixed := reTrailingComma.ReplaceAllString(raw, "$1")
		if err2 := json.Unmarshal([]byte(fixed), &a); err2 != nil {
			return types.AnalyzerOutcome{}, fmt.Errorf("decode analysis: %w", err)
		}
	}

	items := make([]types.ScoredItem, 0, len(a.ScoredItems))
	for _, it := range a.ScoredItems {
		items = append(items, types.ScoredItem{
			Category:            orDefault(it.Category, "Unknown"),
			Item:                orDefault(it.Item, "Unknown"),
			Score:               clampScore(it.Score),
			MaxScore:            types.MaxItemScore,
			Justification:       it.Justification,
			Evidence:            evidenceList(it.Evidence),
			ImprovementGuidance: it.ImprovementGuidance,
		})
	}

	p := types.Participants{
		BusinessName: orDefault(a.BusinessName, notMentioned),
		CustomerName: orDefault(a.CustomerName, notMentioned),
		AgentName:    orDefault(a.AgentName, notMentioned),
	}
	fillParticipants(&p, transcript)

	convType := types.ParseConversationType(a.ConversationType)
	summary := types.ConversationSummary{
		ConversationType:    convType,
		Subject:             orDefault(a.Subject, p.BusinessName+" - Unknown - General"),
		KeyStrengths:        nonNil(a.KeyStrengths),
		AreasForImprovement: nonNil(a.AreasToImprove),
		ActionPlan:          nonNil(a.ActionPlan),
	}
	types.ScoreSummary(&summary, items)

	return types.AnalyzerOutcome{
		Summary:         summary,
		ScoredItems:     items,
		Participants:    p,
		CoachingSummary: a.CoachingSummary,
	}, nil
}

func clampScore(n json.Number) int {
	f, err := n.Float64()
	if err != nil {
		return 3
	}
	s := int(f + 0.5)
	if s < 1 {
		return 1
	}
	if s > types.MaxItemScore {
		return types.MaxItemScore
	}
	return s
}

// evidenceList accepts either a list of quotes or a single string.
func evidenceList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	var one string
	if json.Unmarshal(raw, &one) == nil && one != "" {
		return []string{one}
	}
	return []string{}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// cleanJSONBlock removes markdown code block wrappers from JSON
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// extractJSON finds the first balanced JSON object in a string and returns it.
// Braces inside string literals are ignored.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[start : i+1])
			}
		}
	}
	return ""
}
