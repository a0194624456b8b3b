package types

import (
	"strings"
	"time"
)

// TimestampFormat is the wall-clock format used in notification mails and the Submission record.
const TimestampFormat = "2006-01-02 15:04:05"

// Submission is one validated contact-form payload, ready to be relayed by e-mail. It's only ever
// constructed from input that passed every field check and is immutable afterwards.
type Submission struct {
	Name      string
	Email     string
	Message   string
	Timestamp string
	SourceIP  string
}

// NewSubmission normalizes the raw field values into a Submission. The name and message are
// trimmed, the e-mail address is trimmed and lower-cased.
func NewSubmission(name, email, message, sourceIP string, now time.Time) Submission {
	return Submission{
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Message:   strings.TrimSpace(message),
		Timestamp: now.Format(TimestampFormat),
		SourceIP:  sourceIP,
	}
}
