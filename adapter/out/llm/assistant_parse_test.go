package llm

import (
	"testing"

	"github.com/priyankc/PersonalAssistantBackend/core/domain"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name           string
		analysis       string
		wantAction     bool
		wantPriority   domain.Priority
		wantActionType domain.ActionType
	}{
		{
			name:         "marketing is skipped",
			analysis:     "This is a newsletter with weekly content.",
			wantAction:   false,
			wantPriority: domain.PrioritySkip,
		},
		{
			name:         "marketing overrides action keywords",
			analysis:     "You should check out this promotion.",
			wantAction:   false,
			wantPriority: domain.PrioritySkip,
		},
		{
			name:           "reply action at medium priority",
			analysis:       "You should respond to this colleague's question.",
			wantAction:     true,
			wantPriority:   domain.PriorityMedium,
			wantActionType: domain.ActionReply,
		},
		{
			name:           "urgency raises priority to high",
			analysis:       "ACTION: reply\nThis is urgent, respond immediately.",
			wantAction:     true,
			wantPriority:   domain.PriorityHigh,
			wantActionType: domain.ActionReply,
		},
		{
			name:           "meeting wins over reply",
			analysis:       "You should reply to schedule a meeting next week.",
			wantAction:     true,
			wantPriority:   domain.PriorityMedium,
			wantActionType: domain.ActionScheduleMeeting,
		},
		{
			name:           "action without reply or meeting is a follow-up",
			analysis:       "You need to review the attached contract.",
			wantAction:     true,
			wantPriority:   domain.PriorityMedium,
			wantActionType: domain.ActionFollowUp,
		},
		{
			name:         "no keywords means low priority, no action",
			analysis:     "A casual check-in from an old friend.",
			wantAction:   false,
			wantPriority: domain.PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseVerdict(tt.analysis)
			if got.ActionNeeded != tt.wantAction {
				t.Errorf("ActionNeeded = %v, want %v", got.ActionNeeded, tt.wantAction)
			}
			if got.Priority != tt.wantPriority {
				t.Errorf("Priority = %q, want %q", got.Priority, tt.wantPriority)
			}
			if got.ActionType != tt.wantActionType {
				t.Errorf("ActionType = %q, want %q", got.ActionType, tt.wantActionType)
			}
		})
	}
}

func TestParseVerdictDraftReply(t *testing.T) {
	t.Run("draft extracted from structured response", func(t *testing.T) {
		analysis := `ACTION: reply
PRIORITY: high
DRAFT_REPLY: Hi Jane,

Thanks for the heads up. This is urgent so I'll respond by Friday.

Best,
Alex
REASON: Sender asked for an immediate decision.`

		got := ParseVerdict(analysis)
		if got.ActionType != domain.ActionReply {
			t.Fatalf("ActionType = %q, want reply", got.ActionType)
		}
		want := "Hi Jane,\n\nThanks for the heads up. This is urgent so I'll respond by Friday.\n\nBest,\nAlex"
		if got.DraftReply != want {
			t.Errorf("DraftReply = %q, want %q", got.DraftReply, want)
		}
	})

	t.Run("draft runs to end when no reason follows", func(t *testing.T) {
		got := ParseVerdict("You should respond.\nDRAFT_REPLY: Will do, thanks.")
		if got.DraftReply != "Will do, thanks." {
			t.Errorf("DraftReply = %q", got.DraftReply)
		}
	})

	t.Run("missing draft section yields empty draft", func(t *testing.T) {
		got := ParseVerdict("You should respond to this directly.")
		if got.DraftReply != "" {
			t.Errorf("DraftReply = %q, want empty", got.DraftReply)
		}
	})

	t.Run("non-reply actions never carry a draft", func(t *testing.T) {
		got := ParseVerdict("You must schedule a meeting.\nDRAFT_REPLY: ignored")
		if got.ActionType != domain.ActionScheduleMeeting {
			t.Fatalf("ActionType = %q", got.ActionType)
		}
		if got.DraftReply != "" {
			t.Errorf("DraftReply = %q, want empty for meeting tasks", got.DraftReply)
		}
	})
}
