package domain

import "sort"

// Priority is the triage priority of an email.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PrioritySkip   Priority = "skip"
)

// Rank returns the sort rank of a priority: high sorts first, skip last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ActionType is the kind of action an email requires.
type ActionType string

const (
	ActionReply           ActionType = "reply"
	ActionScheduleMeeting ActionType = "schedule_meeting"
	ActionFollowUp        ActionType = "follow_up"
)

// Classification is the triage verdict for one email.
type Classification struct {
	ActionNeeded      bool       `json:"action_needed"`
	Priority          Priority   `json:"priority"`
	ActionType        ActionType `json:"action_type,omitempty"`
	ActionDescription string     `json:"action_description,omitempty"`
	DraftReply        string     `json:"draft_reply,omitempty"`
	Reason            string     `json:"reason,omitempty"`
}

// SkipVerdict is the degraded verdict used when classification fails. A
// single classification failure must never abort a sync run.
func SkipVerdict(reason string) Classification {
	return Classification{
		ActionNeeded: false,
		Priority:     PrioritySkip,
		Reason:       reason,
	}
}

// ClassifiedEmail pairs a normalized email with its triage verdict.
type ClassifiedEmail struct {
	Email          NormalizedEmail `json:"email"`
	Classification Classification  `json:"classification"`
}

// FilterActionable removes skip-priority emails and stable-sorts the rest by
// priority (high, medium, low). Ties preserve arrival order.
func FilterActionable(emails []ClassifiedEmail) []ClassifiedEmail {
	filtered := make([]ClassifiedEmail, 0, len(emails))
	for _, e := range emails {
		if e.Classification.Priority != PrioritySkip {
			filtered = append(filtered, e)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Classification.Priority.Rank() < filtered[j].Classification.Priority.Rank()
	})

	return filtered
}
