package analyzer

import (
	"regexp"
	"strings"

	"call-auditor-go/internal/types"
)

var (
	reAgentName    = regexp.MustCompile(`(?:[Mm]y name is|[Tt]his is|I'm|I am) ([A-Z][a-z]+)\b`)
	reCustomerName = regexp.MustCompile(`\b(?:[Hh]i|[Hh]ello|[Tt]hanks|[Tt]hank you),? ([A-Z][a-z]+)\b`)
	reBusinessName = regexp.MustCompile(`\b(?:from|at|about) ([A-Z][\w'&]*(?: [A-Z][\w'&]*){0,3})`)
)

// ownName is never reported as the client's business.
const ownName = "StoreHub"

var nameStopwords = map[string]bool{"Sure": true, "Yes": true, "Okay": true, "Good": true, "Thank": true, "Account": true, "Manager": true, "Client": true, "Customer": true, "Agent": true}

// fillParticipants replaces "Not mentioned" fields with names found in the transcript.
func fillParticipants(p *types.Participants, transcript string) {
	if p.AgentName == notMentioned {
		if m := firstName(reAgentName, transcript, ""); m != "" {
			p.AgentName = m
		}
	}
	if p.CustomerName == notMentioned {
		if m := firstName(reCustomerName, transcript, p.AgentName); m != "" {
			p.CustomerName = m
		}
	}
	if p.BusinessName == notMentioned {
		for _, m := range reBusinessName.FindAllStringSubmatch(transcript, -1) {
			name := strings.TrimSpace(m[1])
			if name != "" && !strings.EqualFold(name, ownName) && !nameStopwords[name] {
				p.BusinessName = name
				break
			}
		}
	}
}

func firstName(re *regexp.Regexp, s, exclude string) string {
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		if nameStopwords[m[1]] || m[1] == exclude {
			continue
		}
		return m[1]
	}
	return ""
}
