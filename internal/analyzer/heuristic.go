package analyzer

import (
	"context"
	"fmt"
	"strings"

	"call-auditor-go/internal/types"
)

const (
	catFundamentals = "1. Core Communication Fundamentals"
	catConsultation = "2. Consultation & Pitching Focus"
	catServicing    = "3. Servicing Focus"
)

var (
	greetingWords     = []string{"hello", "hi", "good morning", "good afternoon", "thanks", "thank you", "welcome", "appreciate"}
	profanityWords    = []string{"damn", "shit", "fuck", "asshole", "stupid", "idiot", "crap"}
	dismissivePhrases = []string{"whatever", "i don't care", "not my problem", "figure it out", "deal with it", "too bad", "so what"}
	rudePhrases       = []string{"shut up", "listen to me", "you don't understand", "you're wrong"}
	serviceWords      = []string{"problem", "issue", "help", "support", "fix", "resolve", "assist", "trouble", "error"}
	salesWords        = []string{"product", "offer", "buy", "purchase", "benefit", "feature", "pricing", "plan", "upgrade", "demo"}
	listeningPhrases  = []string{"understand", "hear you", "i see", "let me clarify", "what you mean", "correct me if", "make sure i understand"}
	empathyPhrases    = []string{"sorry to hear", "i understand how", "must be", "i can imagine", "concerned about", "frustrating"}
	closingPhrases    = []string{"anything else", "follow up", "next step", "i'll send", "i will send", "have a great day", "within the next"}
	needsPhrases      = []string{"need", "require", "looking for", "interested", "what would", "how many"}
)

// Heuristic scores a transcript from keyword signals. It needs no network
// access and always succeeds for non-empty input.
type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

func (*Heuristic) Name() string { return "heuristic" }

type signals struct {
	lines []string

	greeting, profanity, dismissive, rude bool
	service, sales, listening, empathy    bool
	closing, questions                    bool
}

func readSignals(transcript string) signals {
	lower := strings.ToLower(transcript)
	var lines []string
	for _, l := range strings.Split(transcript, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return signals{
		lines:      lines,
		greeting:   containsAny(lower, greetingWords),
		profanity:  containsAny(lower, profanityWords),
		dismissive: containsAny(lower, dismissivePhrases),
		rude:       containsAny(lower, rudePhrases),
		service:    containsAny(lower, serviceWords),
		sales:      containsAny(lower, salesWords),
		listening:  containsAny(lower, listeningPhrases),
		empathy:    containsAny(lower, empathyPhrases),
		closing:    containsAny(lower, closingPhrases),
		questions:  strings.Contains(transcript, "?"),
	}
}

func (s signals) unprofessional() bool { return s.profanity || s.dismissive || s.rude }

func (h *Heuristic) Analyze(ctx context.Context, transcript string) (types.AnalyzerOutcome, error) {
	if err := ctx.Err(); err != nil {
		return types.AnalyzerOutcome{}, err
	}
	if strings.TrimSpace(transcript) == "" {
		return types.AnalyzerOutcome{}, fmt.Errorf("empty transcript")
	}
	s := readSignals(transcript)

	p := types.Participants{BusinessName: notMentioned, CustomerName: notMentioned, AgentName: notMentioned}
	fillParticipants(&p, transcript)

	var convType types.ConversationType
	var label, topic string
	switch {
	case s.service && s.sales:
		convType, label, topic = types.ConversationMixed, "Mixed", "Support & Sales"
	case s.service:
		convType, label, topic = types.ConversationService, "Servicing", "Issue Resolution"
	case s.sales:
		convType, label, topic = types.ConversationConsultation, "Consultation", "Product Interest"
	default:
		convType, label, topic = types.ConversationConsultation, "Consultation", "General Discussion"
	}

	items := []types.ScoredItem{s.rapport(), s.activeListening()}
	if s.service {
		items = append(items, s.servicing())
	}
	if s.sales || !s.service {
		items = append(items, s.consultation())
	}
	items = append(items, s.closure())

	summary := types.ConversationSummary{
		ConversationType: convType,
		Subject:          fmt.Sprintf("%s - %s - %s", p.BusinessName, label, topic),
	}
	types.ScoreSummary(&summary, items)
	summary.KeyStrengths, summary.AreasForImprovement = strengthsAndGaps(items, s)
	summary.ActionPlan = s.actionPlan()

	return types.AnalyzerOutcome{
		Summary:         summary,
		ScoredItems:     items,
		Participants:    p,
		CoachingSummary: coachingSummary(summary, s),
	}, nil
}

func (s signals) rapport() types.ScoredItem {
	var score int
	var why string
	switch {
	case s.unprofessional():
		score, why = 1, "Unprofessional, dismissive or rude language was used with the client."
	case s.greeting && s.empathy:
		score, why = 4, "Courteous greeting and explicit empathy for the client's situation."
	case s.greeting:
		score, why = 3, "Polite greeting but little personal connection or acknowledgement of the client's situation."
	default:
		score, why = 2, "No greeting or courtesy phrases were found."
	}
	return item(catFundamentals, "1.1 Rapport Building & Sincerity", score, why,
		s.quotes(append(append([]string{}, greetingWords...), empathyPhrases...)),
		"Open warmly, use the client's name and acknowledge their situation before moving to business.")
}

func (s signals) activeListening() types.ScoredItem {
	var score int
	var why string
	switch {
	case s.rude || s.dismissive:
		score, why = 1, "Dismissive responses show the client was not being heard."
	case s.listening && s.questions:
		score, why = 4, "Clarifying questions and paraphrasing show the client was heard."
	case s.listening:
		score, why = 3, "Some acknowledgement of the client's points, few clarifying questions."
	case s.questions:
		score, why = 2, "Questions were asked but answers were not reflected back."
	default:
		score, why = 1, "No evidence of listening techniques."
	}
	ev := s.quotes(listeningPhrases)
	if len(ev) == 0 {
		ev = s.questionLines(2)
	}
	return item(catFundamentals, "1.2 Active Listening", score, why, ev,
		"Paraphrase the client's concern and confirm understanding before proposing a solution.")
}

func (s signals) servicing() types.ScoredItem {
	var score int
	var why string
	switch {
	case s.unprofessional():
		score, why = 1, "Issue handling was undermined by unprofessional conduct."
	case s.empathy && s.listening:
		score, why = 4, "Issue was explored with empathy and attention to the client's impact."
	default:
		score, why = 3, "Issue was addressed but its impact on the client was not fully explored."
	}
	return item(catServicing, "3.1 Enquiry & Issue Comprehension", score, why,
		s.quotes(append(append([]string{}, serviceWords...), empathyPhrases...)),
		"Ask about the impact and urgency of the issue and confirm the resolution path with the client.")
}

func (s signals) consultation() types.ScoredItem {
	var score int
	var why string
	needs := s.quotes(needsPhrases)
	switch {
	case s.unprofessional():
		score, why = 1, "Trust could not be built given the conduct on the call."
	case s.sales && len(needs) > 0 && s.questions:
		score, why = 4, "Needs were explored with questions before solutions were presented."
	case s.sales:
		score, why = 3, "Solutions were discussed but needs discovery was thin."
	default:
		score, why = 2, "Little needs discovery or solution presentation."
	}
	return item(catConsultation, "2.1 Needs Discovery", score, why,
		s.quotes(append(append([]string{}, salesWords...), needsPhrases...)),
		"Use open questions about current challenges and goals before presenting a solution.")
}

func (s signals) closure() types.ScoredItem {
	var score int
	var why string
	switch {
	case s.unprofessional():
		score, why = 1, "The call did not end professionally."
	case s.closing:
		score, why = 4, "Next steps and follow-up were confirmed before closing."
	default:
		score, why = 2, "The call ended without confirming next steps or timelines."
	}
	return item(catServicing, "3.3 Follow-up & Closure", score, why, s.quotes(closingPhrases),
		"Summarise agreed actions with owners and timelines, then check whether anything else is needed.")
}

func item(category, name string, score int, why string, evidence []string, guidance string) types.ScoredItem {
	it := types.ScoredItem{
		Category:      category,
		Item:          name,
		Score:         score,
		MaxScore:      types.MaxItemScore,
		Justification: why,
		Evidence:      evidence,
	}
	if score < 4 {
		g := guidance
		it.ImprovementGuidance = &g
	}
	if it.Evidence == nil {
		it.Evidence = []string{}
	}
	return it
}

// quotes returns up to three transcript lines mentioning any keyword.
func (s signals) quotes(keywords []string) []string {
	var out []string
	for _, l := range s.lines {
		if len(l) > 10 && containsAny(strings.ToLower(l), keywords) {
			out = append(out, strings.ReplaceAll(l, `"`, ""))
			if len(out) == 3 {
				break
			}
		}
	}
	return out
}

func (s signals) questionLines(n int) []string {
	var out []string
	for _, l := range s.lines {
		if strings.Contains(l, "?") {
			out = append(out, l)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

func strengthsAndGaps(items []types.ScoredItem, s signals) ([]string, []string) {
	strengths, gaps := []string{}, []string{}
	for _, it := range items {
		entry := it.Item + " - " + it.Justification
		if it.Score >= 4 {
			strengths = append(strengths, entry)
		} else {
			gaps = append(gaps, entry)
		}
	}
	if s.unprofessional() {
		gaps = append([]string{"Unprofessional conduct needs immediate coaching"}, gaps...)
		strengths = []string{}
	}
	if len(strengths) == 0 && !s.unprofessional() {
		strengths = []string{"Basic conversation structure maintained"}
	}
	return strengths, gaps
}

func (s signals) actionPlan() []string {
	plan := []string{}
	if s.unprofessional() {
		plan = append(plan, "Retrain on professional communication standards and the code of conduct")
	}
	if !s.listening {
		plan = append(plan, "Practise paraphrasing and acknowledgement phrases to show active listening")
	}
	if !s.empathy {
		plan = append(plan, "Acknowledge the client's situation explicitly before offering solutions")
	}
	if !s.closing {
		plan = append(plan, "Close every call by confirming next steps, owners and timelines")
	}
	if len(plan) == 0 {
		plan = append(plan, "Keep building on current strengths and share them with the team")
	}
	return plan
}

func coachingSummary(sum types.ConversationSummary, s signals) string {
	verdict := "does not yet meet the pass mark"
	if sum.PassStatus {
		verdict = "meets the pass mark"
	}
	msg := fmt.Sprintf("The conversation scored %d/%d and %s.", sum.TotalScore, sum.MaxTotalScore, verdict)
	if s.unprofessional() {
		msg += " Unprofessional language was detected and must be addressed before anything else."
	}
	return msg
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
