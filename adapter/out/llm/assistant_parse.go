package llm

import (
	"regexp"
	"strings"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
)

// Keyword heuristics for the free-text triage response. Marketing signals
// override everything; urgency upgrades actionable email to high priority.
var (
	marketingRe = regexp.MustCompile(`(?i)marketing|newsletter|promotion|update|sale`)
	actionRe    = regexp.MustCompile(`(?i)should|need to|must|important|urgent|action required`)
	meetingRe   = regexp.MustCompile(`(?i)meet|meeting|schedule|appointment`)
	replyRe     = regexp.MustCompile(`(?i)reply|respond|write back`)
	urgentRe    = regexp.MustCompile(`(?i)urgent|important|asap|immediate`)

	draftReplyRe = regexp.MustCompile(`(?is)DRAFT_REPLY:\s*(.*?)(?:\n\s*REASON:|\z)`)
)

// ParseVerdict turns a free-text triage response into a classification.
func ParseVerdict(analysis string) domain.Classification {
	if marketingRe.MatchString(analysis) {
		return domain.Classification{
			ActionNeeded: false,
			Priority:     domain.PrioritySkip,
			Reason:       "Marketing or promotional email",
		}
	}

	if actionRe.MatchString(analysis) {
		priority := domain.PriorityMedium
		if urgentRe.MatchString(analysis) {
			priority = domain.PriorityHigh
		}

		actionType := domain.ActionFollowUp
		switch {
		case meetingRe.MatchString(analysis):
			actionType = domain.ActionScheduleMeeting
		case replyRe.MatchString(analysis):
			actionType = domain.ActionReply
		}

		c := domain.Classification{
			ActionNeeded:      true,
			Priority:          priority,
			ActionType:        actionType,
			ActionDescription: strings.TrimSpace(analysis),
		}
		if actionType == domain.ActionReply {
			c.DraftReply = extractDraftReply(analysis)
		}
		return c
	}

	return domain.Classification{
		ActionNeeded: false,
		Priority:     domain.PriorityLow,
		Reason:       "No immediate action required",
	}
}

// extractDraftReply pulls the DRAFT_REPLY section out of a structured reply
// response. Returns "" when the model did not follow the format.
func extractDraftReply(analysis string) string {
	m := draftReplyRe.FindStringSubmatch(analysis)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
