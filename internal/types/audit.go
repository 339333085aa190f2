package types

import (
	"strings"
	"time"
)

type ConversationType string

const (
	ConversationConsultation ConversationType = "consultation"
	ConversationService      ConversationType = "service"
	ConversationMixed        ConversationType = "mixed"
)

// ParseConversationType maps free-form labels ("Servicing", "Consultation") onto the enum.
func ParseConversationType(s string) ConversationType {
	switch l := strings.ToLower(s); {
	case strings.Contains(l, "consult"):
		return ConversationConsultation
	case strings.Contains(l, "servic"):
		return ConversationService
	default:
		return ConversationMixed
	}
}

const (
	MaxItemScore  = 5
	MaxTotalScore = 100
	PassThreshold = 80
)

type ScoredItem struct {
	Category            string   `json:"category"`
	Item                string   `json:"item"`
	Score               int      `json:"score"`
	MaxScore            int      `json:"max_score"`
	Justification       string   `json:"justification"`
	Evidence            []string `json:"evidence"`
	ImprovementGuidance *string  `json:"improvement_guidance,omitempty"`
}

type ConversationSummary struct {
	ConversationType    ConversationType `json:"conversation_type"`
	Subject             string           `json:"subject"`
	TotalScore          int              `json:"total_score"`
	MaxTotalScore       int              `json:"max_total_score"`
	PassStatus          bool             `json:"pass_status"`
	KeyStrengths        []string         `json:"key_strengths"`
	AreasForImprovement []string         `json:"areas_for_improvement"`
	ActionPlan          []string         `json:"action_plan"`
}

type Participants struct {
	BusinessName string `json:"business_name"`
	CustomerName string `json:"customer_name"`
	AgentName    string `json:"agent_name"`
}

// AnalyzerOutcome is the structured result returned by an Analyzer.
type AnalyzerOutcome struct {
	Summary         ConversationSummary `json:"summary"`
	ScoredItems     []ScoredItem        `json:"scored_items"`
	Participants    Participants        `json:"participant_info"`
	CoachingSummary string              `json:"coaching_summary,omitempty"`
}

// AuditResult is persisted once per completed job and never modified.
type AuditResult struct {
	JobID                 string              `json:"job_id"`
	Filename              string              `json:"filename"`
	Summary               ConversationSummary `json:"summary"`
	ScoredItems           []ScoredItem        `json:"scored_items"`
	Participants          Participants        `json:"participant_info"`
	CoachingSummary       string              `json:"coaching_summary,omitempty"`
	Transcript            string              `json:"transcript"`
	TranscriptSource      string              `json:"transcript_source"`
	PlaceholderTranscript bool                `json:"placeholder_transcript"`
	ProcessingTime        float64             `json:"processing_time"`
	CreatedAt             time.Time           `json:"created_at"`
}

// ScoreSummary fills TotalScore, MaxTotalScore and PassStatus from the item scores:
// the mean item score expressed as a rounded percentage of MaxItemScore.
func ScoreSummary(s *ConversationSummary, items []ScoredItem) {
	s.MaxTotalScore = MaxTotalScore
	if len(items) == 0 {
		s.TotalScore = 0
		s.PassStatus = false
		return
	}
	sum := 0
	for _, it := range items {
		sum += it.Score
	}
	avg := float64(sum) / float64(len(items))
	s.TotalScore = int(avg/MaxItemScore*100 + 0.5)
	s.PassStatus = s.TotalScore >= PassThreshold
}
