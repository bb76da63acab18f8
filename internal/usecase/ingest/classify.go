package ingest

import (
	"strings"

	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

type callTypeRule struct {
	callType entities.CallType
	keywords []string
}

// Title rules win over body rules; within each list the first match wins.
var (
	titleRules = []callTypeRule{
		{entities.CallTypeDiscovery, []string{"discovery", "qualification"}},
		{entities.CallTypeDemo, []string{"demo", "presentation"}},
		{entities.CallTypeClosing, []string{"close", "proposal"}},
		{entities.CallTypeFollowup, []string{"follow", "check-in"}},
	}
	bodyRules = []callTypeRule{
		{entities.CallTypeDemo, []string{"demo", "show you"}},
		{entities.CallTypeClosing, []string{"proposal", "contract"}},
	}
)

// ClassifyCallType infers the call type from keywords in the title and
// transcript. Matching is case-insensitive and the fallback is discovery.
func ClassifyCallType(title, text string) entities.CallType {
	title = strings.ToLower(title)
	for _, r := range titleRules {
		if containsAny(title, r.keywords) {
			return r.callType
		}
	}

	text = strings.ToLower(text)
	if strings.Contains(text, "budget") && strings.Contains(text, "timeline") {
		return entities.CallTypeDiscovery
	}
	for _, r := range bodyRules {
		if containsAny(text, r.keywords) {
			return r.callType
		}
	}
	return entities.CallTypeDiscovery
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
