package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// RawMessage is a provider-supplied message reference, not yet fetched in
// detail.
type RawMessage struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

// MessageHeader is a single metadata header from the provider detail payload.
type MessageHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MessageDetail is the provider metadata payload for one message.
type MessageDetail struct {
	ID       string          `json:"id"`
	ThreadID string          `json:"threadId"`
	Snippet  string          `json:"snippet"`
	Headers  []MessageHeader `json:"headers"`
}

// Header returns the value of the named header, matched case-insensitively.
// Returns "" when absent.
func (d *MessageDetail) Header(name string) string {
	for _, h := range d.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// NormalizedEmail is a message with its required metadata extracted. Subject,
// From and Date are always non-empty.
type NormalizedEmail struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	Subject  string    `json:"subject"`
	From     string    `json:"from"`
	Date     time.Time `json:"date"`
	Snippet  string    `json:"snippet"`
}

var bracketedAddr = regexp.MustCompile(`<.*>`)

// StripAddress removes a bracketed address suffix from a From header, keeping
// only the display name. "Jane Doe <jane@example.com>" becomes "Jane Doe".
// A bare address is returned unchanged.
func StripAddress(from string) string {
	stripped := strings.TrimSpace(bracketedAddr.ReplaceAllString(from, ""))
	if stripped == "" {
		return strings.TrimSpace(from)
	}
	return stripped
}

// NormalizeDetail extracts subject/from/date from the detail payload and
// applies the sync window. It returns nil when a required header is missing,
// the date cannot be parsed, or the email is dated strictly before floor.
// An email dated exactly at floor is kept. A nil return is an exclusion, not
// an error.
func NormalizeDetail(detail *MessageDetail, floor time.Time) *NormalizedEmail {
	subject := detail.Header("Subject")
	from := detail.Header("From")
	date := detail.Header("Date")

	if subject == "" || from == "" || date == "" {
		return nil
	}

	parsed, err := mail.ParseDate(date)
	if err != nil {
		return nil
	}

	if parsed.Before(floor) {
		return nil
	}

	return &NormalizedEmail{
		ID:       detail.ID,
		ThreadID: detail.ThreadID,
		Subject:  subject,
		From:     StripAddress(from),
		Date:     parsed,
		Snippet:  detail.Snippet,
	}
}
