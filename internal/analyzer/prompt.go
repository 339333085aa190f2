package analyzer

import "fmt"

const rubric = `SCORING RUBRIC (each item scored 1-5):

1. Core Communication Fundamentals
   - 1.1 Rapport Building & Sincerity
   - 1.2 Active Listening
   - 1.3 Professional Communication

2. Consultation & Pitching Focus
   - 2.1 Needs Discovery
   - 2.2 Solution Presentation
   - 2.3 Handling Objections

3. Servicing Focus
   - 3.1 Enquiry & Issue Comprehension
   - 3.2 Solution & Resolution
   - 3.3 Follow-up & Closure

Score only the items the conversation gives evidence for. Consultation items apply to
sales and discovery conversations, servicing items to support conversations.`

const promptTemplate = `You are a strict performance auditor reviewing a recorded conversation between an
Account Manager and a client. Hold the Account Manager to a high professional standard.

SCORING SCALE:
- 5: exemplary, could be used as a training example
- 4: solid, meets expectations with minor gaps
- 3: average, clear room for improvement
- 2: below standard
- 1: unacceptable

HARD LIMITS:
- Any unprofessional or rude language caps every item at 1.
- No sign of listening caps Active Listening at 2.
- No empathy shown caps Rapport Building at 2.
- A weak closing caps Follow-up & Closure at 3.

%s

TRANSCRIPT:
"""
%s
"""

Return ONLY a JSON object with these keys:
{
  "business_name": "the client's business name, never our own company; 'Not mentioned' if absent",
  "customer_name": "client's name or 'Not mentioned'",
  "agent_name": "Account Manager's name or 'Not mentioned'",
  "conversation_type": "Consultation | Servicing | Mixed",
  "subject": "BusinessName - ConversationType - topic in under five words",
  "scored_items": [
    {
      "category": "rubric category",
      "item": "rubric item",
      "score": 1,
      "justification": "why this score",
      "evidence": ["exact quotes from the transcript"],
      "improvement_guidance": "concrete advice, or null when score >= 4"
    }
  ],
  "key_strengths": ["..."],
  "areas_for_improvement": ["..."],
  "action_plan": ["..."],
  "coaching_summary": "short paragraph"
}
Do not wrap the JSON in backticks and do not add commentary.`

func buildPrompt(transcript string) string {
	return fmt.Sprintf(promptTemplate, rubric, transcript)
}
