package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dynom/TySug/finder"
	testLog "github.com/sirupsen/logrus/hooks/test"

	"github.com/venkm/formrelay/form"
	"github.com/venkm/formrelay/types"
	"github.com/venkm/formrelay/validator"
)

type stubChecker struct {
	result validator.Result
}

func (s stubChecker) Validate(_ context.Context, _ string) validator.Result {
	return s.result
}

type recordingSender struct {
	sent []types.Submission
	err  error
}

func (r *recordingSender) Send(_ context.Context, sub types.Submission) error {
	if r.err != nil {
		return r.err
	}

	r.sent = append(r.sent, sub)
	return nil
}

func newTestFinder(t *testing.T) *finder.Finder {
	t.Helper()

	f, err := finder.New(
		[]string{"gmail.com", "yahoo.com", "hotmail.com"},
		finder.WithAlgorithm(finder.NewJaroWinklerDefaults()),
	)
	if err != nil {
		t.Fatalf("Test setup failed, %s", err)
	}

	return f
}

func newSvc(t *testing.T, checker form.EmailChecker, sender *recordingSender) SubmitSvc {
	t.Helper()

	logger, _ := testLog.NewNullLogger()
	fv := form.NewValidator(checker, form.Config{})

	return NewSubmitService(fv, sender, newTestFinder(t), time.Second, logger)
}

func accepted() stubChecker {
	return stubChecker{result: validator.Result{Accepted: true, Reason: validator.ReasonValidated}}
}

func rejected() stubChecker {
	return stubChecker{result: validator.Result{Accepted: false, Reason: validator.ReasonNoSuchAddress}}
}

func validValues() form.Values {
	return form.Values{
		Name:    "Jane Doe",
		Email:   "  Jane@Example.org ",
		Message: "Hello, I'd like to get in touch.",
	}
}

func TestSubmitSvc_HandleSubmission(t *testing.T) {
	t.Run("valid submission is relayed", func(t *testing.T) {
		sender := &recordingSender{}
		svc := newSvc(t, accepted(), sender)

		result, err := svc.HandleSubmission(context.Background(), validValues(), "198.51.100.7")
		if err != nil {
			t.Fatalf("HandleSubmission() error = %v", err)
		}

		if len(result.Errors) != 0 {
			t.Fatalf("Unexpected field errors %v", result.Errors)
		}

		if len(sender.sent) != 1 {
			t.Fatalf("Expected one send, got %d", len(sender.sent))
		}

		sub := sender.sent[0]
		if sub.Email != "jane@example.org" {
			t.Errorf("Expected a normalized address, got %q", sub.Email)
		}

		if sub.SourceIP != "198.51.100.7" {
			t.Errorf("SourceIP = %q", sub.SourceIP)
		}
	})

	t.Run("field errors prevent any send", func(t *testing.T) {
		sender := &recordingSender{}
		svc := newSvc(t, accepted(), sender)

		result, err := svc.HandleSubmission(context.Background(), form.Values{}, "198.51.100.7")
		if err != nil {
			t.Fatalf("HandleSubmission() error = %v", err)
		}

		if len(result.Errors) != 3 {
			t.Errorf("Errors = %v", result.Errors)
		}

		if len(sender.sent) != 0 {
			t.Errorf("Expected no send for an invalid submission, got %d", len(sender.sent))
		}
	})

	t.Run("send failure surfaces as an error", func(t *testing.T) {
		sender := &recordingSender{err: errors.New("connection refused")}
		svc := newSvc(t, accepted(), sender)

		result, err := svc.HandleSubmission(context.Background(), validValues(), "198.51.100.7")
		if err == nil {
			t.Fatal("Expected the send failure to propagate")
		}

		if len(result.Errors) != 0 {
			t.Errorf("A send failure isn't a validation failure, got %v", result.Errors)
		}
	})

	t.Run("rejected address gets an alternative", func(t *testing.T) {
		sender := &recordingSender{}
		svc := newSvc(t, rejected(), sender)

		values := validValues()
		values.Email = "jane@gmial.com"

		result, err := svc.HandleSubmission(context.Background(), values, "198.51.100.7")
		if err != nil {
			t.Fatalf("HandleSubmission() error = %v", err)
		}

		if !result.Errors.Contains(validator.ReasonNoSuchAddress) {
			t.Fatalf("Errors = %v", result.Errors)
		}

		if result.Alternative != "jane@gmail.com" {
			t.Errorf("Alternative = %q, want a corrected domain", result.Alternative)
		}

		if len(sender.sent) != 0 {
			t.Errorf("Expected no send for a rejected submission, got %d", len(sender.sent))
		}
	})

	t.Run("no alternative without a finder", func(t *testing.T) {
		logger, _ := testLog.NewNullLogger()
		fv := form.NewValidator(rejected(), form.Config{})
		svc := NewSubmitService(fv, &recordingSender{}, nil, time.Second, logger)

		values := validValues()
		values.Email = "jane@gmial.com"

		result, _ := svc.HandleSubmission(context.Background(), values, "198.51.100.7")
		if result.Alternative != "" {
			t.Errorf("Alternative = %q, want none", result.Alternative)
		}
	})

	t.Run("resubmission sends again", func(t *testing.T) {
		// There is no deduplication, two identical submissions are two sends
		sender := &recordingSender{}
		svc := newSvc(t, accepted(), sender)

		for i := 0; i < 2; i++ {
			if _, err := svc.HandleSubmission(context.Background(), validValues(), "198.51.100.7"); err != nil {
				t.Fatalf("HandleSubmission() #%d error = %v", i+1, err)
			}
		}

		if len(sender.sent) != 2 {
			t.Errorf("Expected two independent sends, got %d", len(sender.sent))
		}
	})
}

func TestSubmitSvc_SendTest(t *testing.T) {
	sender := &recordingSender{}
	svc := newSvc(t, accepted(), sender)

	if err := svc.SendTest(context.Background(), "owner@example.com"); err != nil {
		t.Fatalf("SendTest() error = %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("Expected one send, got %d", len(sender.sent))
	}

	sub := sender.sent[0]
	if sub.Name != testName || sub.Email != "owner@example.com" || sub.SourceIP != testIP {
		t.Errorf("Unexpected test submission %+v", sub)
	}
}
