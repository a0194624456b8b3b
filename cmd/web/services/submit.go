package services

import (
	"context"
	"strings"
	"time"

	"github.com/Dynom/TySug/finder"
	"github.com/sirupsen/logrus"

	"github.com/venkm/formrelay/cmd/web/formhttp/handlers"
	"github.com/venkm/formrelay/form"
	"github.com/venkm/formrelay/mailer"
	"github.com/venkm/formrelay/types"
	"github.com/venkm/formrelay/validator"
)

// The fixed payload behind the test-email endpoint
const (
	testName    = "Test User"
	testMessage = "This is a test message. If you receive this, the system is working!"
	testIP      = "127.0.0.1"
)

func NewSubmitService(formValidator form.Validator, sender mailer.Sender, f *finder.Finder, lookupTimeout time.Duration, logger *logrus.Logger) SubmitSvc {
	return SubmitSvc{
		form:          formValidator,
		sender:        sender,
		finder:        f,
		lookupTimeout: lookupTimeout,
		logger:        logger.WithField("svc", "submit"),
		now:           time.Now,
	}
}

// SubmitSvc runs one submission through validation and, when it passes in full, relays it
type SubmitSvc struct {
	form          form.Validator
	sender        mailer.Sender
	finder        *finder.Finder
	lookupTimeout time.Duration
	logger        *logrus.Entry
	now           func() time.Time
}

type SubmitResult struct {
	// Errors holds the field errors, in field order. Empty means the submission validated.
	Errors form.FieldErrors

	// Alternative suggests a likely intended address when the submitted one was rejected as
	// non-existent
	Alternative string

	// Submission is the normalized record, set once validation passed
	Submission types.Submission
}

// HandleSubmission validates the field values and relays the submission. A non-nil error means
// the send failed after validation passed, validation failures only populate Errors. No send is
// ever attempted for a submission with field errors, and nothing is retried.
func (s *SubmitSvc) HandleSubmission(ctx context.Context, values form.Values, sourceIP string) (SubmitResult, error) {
	var result SubmitResult

	log := s.logger.WithFields(logrus.Fields{
		handlers.RequestID.String(): ctx.Value(handlers.RequestID),
		"source_ip":                 sourceIP,
	})

	result.Errors = s.validate(ctx, values)
	if len(result.Errors) > 0 {
		if result.Errors.Contains(validator.ReasonNoSuchAddress) {
			result.Alternative = s.suggestAlternative(ctx, values.Email)
		}

		log.WithFields(logrus.Fields{
			"errors":      result.Errors,
			"alternative": result.Alternative,
		}).Debug("Submission rejected")

		return result, nil
	}

	result.Submission = types.NewSubmission(values.Name, values.Email, values.Message, sourceIP, s.now())

	if err := s.sender.Send(ctx, result.Submission); err != nil {
		log.WithError(err).Error("Unable to relay the submission")
		return result, err
	}

	log.WithField("email", result.Submission.Email).Info("Submission relayed")
	return result, nil
}

// SendTest relays the fixed test submission to the configured recipient, exercising the full
// sending path without validation.
func (s *SubmitSvc) SendTest(ctx context.Context, recipient string) error {
	sub := types.NewSubmission(testName, recipient, testMessage, testIP, s.now())

	if err := s.sender.Send(ctx, sub); err != nil {
		s.logger.WithError(err).Error("Unable to relay the test submission")
		return err
	}

	s.logger.Info("Test submission relayed")
	return nil
}

func (s *SubmitSvc) validate(ctx context.Context, values form.Values) form.FieldErrors {
	if s.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
	}

	return s.form.Validate(ctx, values)
}

// suggestAlternative proposes local@<closest reference domain> for a rejected address. It only
// informs the response, the rejection itself stands.
func (s *SubmitSvc) suggestAlternative(ctx context.Context, email string) string {
	if s.finder == nil {
		return ""
	}

	parts, err := types.NewEmailParts(strings.TrimSpace(email))
	if err != nil {
		return ""
	}

	alt, score, exact := s.finder.FindCtx(ctx, parts.Domain)
	if exact || alt == parts.Domain || score <= finder.WorstScoreValue {
		return ""
	}

	return types.NewEmailFromParts(parts.Local, alt).Address
}
