// Package contact delivers contact-form submissions to the configured mail
// provider and tracks the form's visible outcome.
package contact

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jaeyunjks/portfolio/internal/disclosure"
)

// TimestampLayout formats the submission time sent with each message.
const TimestampLayout = "Mon, 02 Jan 2006 15:04:05 MST"

var (
	// ErrRateLimited is returned when a client submits too often.
	ErrRateLimited = errors.New("too many messages, please wait a minute and try again")
	// ErrNotConfigured is returned by senders missing credentials.
	ErrNotConfigured = errors.New("mail delivery is not configured")
	// ErrIncomplete is returned when a required field is blank.
	ErrIncomplete = errors.New("name, email and message are required")
)

// Fields are the values a visitor types into the form.
type Fields struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Subject string `form:"subject"`
	Message string `form:"message"`
}

// Trim returns f with surrounding whitespace removed.
func (f Fields) Trim() Fields {
	return Fields{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
	}
}

// Submission is the payload handed to a mail provider.
type Submission struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	Timestamp string
}

// Complete reports whether the required fields are present. Format checks
// are left to the browser's native validation.
func (s Submission) Complete() bool {
	return s.Name != "" && s.Email != "" && s.Message != ""
}

// Result is the outcome of one delivery: OK, or failed with Err.
type Result struct {
	ID  string
	Err error
}

func (r Result) OK() bool { return r.Err == nil }

// Sender delivers a submission.
type Sender interface {
	Name() string
	Send(ctx context.Context, s Submission) error
}

// Form is the contact form's state for one page life: its fields and the
// status region below it.
type Form struct {
	Fields Fields
	Status disclosure.Status
}

// Confirmation is shown after a successful delivery.
const Confirmation = "Thank you for your message! I'll get back to you soon."

// Begin builds the submission for the current fields, stamped at now.
func (f *Form) Begin(now time.Time) Submission {
	v := f.Fields.Trim()
	return Submission{
		Name:      v.Name,
		Email:     v.Email,
		Subject:   v.Subject,
		Message:   v.Message,
		Timestamp: now.Format(TimestampLayout),
	}
}

// Complete applies a delivery outcome. Success clears the fields; failure
// keeps them so the visitor can retry.
func (f *Form) Complete(r Result) {
	if r.OK() {
		f.Fields = Fields{}
		f.Status.Succeed(Confirmation)
		return
	}
	f.Status.Fail("Failed to send message: " + errors.Cause(r.Err).Error())
}
