package form

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/venkm/formrelay/validator"
)

// acceptAll satisfies EmailChecker without a network
type acceptAll struct {
	calls int
}

func (a *acceptAll) Validate(_ context.Context, _ string) validator.Result {
	a.calls++
	return validator.Result{Accepted: true, Reason: validator.ReasonValidated}
}

type rejectAll struct {
	reason string
}

func (r rejectAll) Validate(_ context.Context, _ string) validator.Result {
	return validator.Result{Accepted: false, Reason: r.reason}
}

func TestValidator_Validate(t *testing.T) {
	valid := Values{
		Name:    "Jane Doe",
		Email:   "jane@example.org",
		Message: "Hello, I'd like to get in touch.",
	}

	tests := []struct {
		name   string
		cfg    Config
		values Values
		want   FieldErrors
	}{
		{
			name:   "all good",
			values: valid,
			want:   nil,
		},
		{
			name:   "everything missing",
			values: Values{},
			want: FieldErrors{
				"Name is required",
				"Email address is required",
				"Message is required",
			},
		},
		{
			name:   "single character name",
			values: Values{Name: "J", Email: valid.Email, Message: valid.Message},
			want:   FieldErrors{"Name must be at least 2 characters long"},
		},
		{
			name:   "two character name passes",
			values: Values{Name: "Jo", Email: valid.Email, Message: valid.Message},
			want:   nil,
		},
		{
			name:   "whitespace-only name counts as too short",
			values: Values{Name: "   ", Email: valid.Email, Message: valid.Message},
			want:   FieldErrors{"Name must be at least 2 characters long"},
		},
		{
			name:   "100 character name passes",
			values: Values{Name: strings.Repeat("a", 100), Email: valid.Email, Message: valid.Message},
			want:   nil,
		},
		{
			name:   "101 character name fails",
			values: Values{Name: strings.Repeat("a", 101), Email: valid.Email, Message: valid.Message},
			want:   FieldErrors{"Name is too long (maximum 100 characters)"},
		},
		{
			name:   "whitespace-only message",
			values: Values{Name: valid.Name, Email: valid.Email, Message: " \t\n"},
			want:   FieldErrors{"Message cannot be empty"},
		},
		{
			name:   "short message passes without the minimum",
			values: Values{Name: valid.Name, Email: valid.Email, Message: "Hi"},
			want:   nil,
		},
		{
			name:   "short message fails with the minimum",
			cfg:    Config{RequireMinimumMessageLength: true},
			values: Values{Name: valid.Name, Email: valid.Email, Message: "Hi"},
			want:   FieldErrors{"Message must be at least 10 characters long"},
		},
		{
			name:   "2000 character message passes",
			values: Values{Name: valid.Name, Email: valid.Email, Message: strings.Repeat("m", 2000)},
			want:   nil,
		},
		{
			name:   "2001 character message fails",
			values: Values{Name: valid.Name, Email: valid.Email, Message: strings.Repeat("m", 2001)},
			want:   FieldErrors{"Message is too long (maximum 2000 characters)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(&acceptAll{}, tt.cfg)

			got := v.Validate(context.Background(), tt.values)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidator_Validate_EmailDelegation(t *testing.T) {
	t.Run("rejection reason is carried verbatim", func(t *testing.T) {
		v := NewValidator(rejectAll{reason: validator.ReasonNoSuchAddress}, Config{})

		got := v.Validate(context.Background(), Values{Name: "Jane", Email: "x@totally-bogus-domain-xyz.test", Message: "Hello there"})
		want := FieldErrors{validator.ReasonNoSuchAddress}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Validate() = %v, want %v", got, want)
		}
	})

	t.Run("address is trimmed before delegating", func(t *testing.T) {
		checker := &acceptAll{}
		v := NewValidator(checker, Config{})

		if got := v.Validate(context.Background(), Values{Name: "Jane", Email: "  jane@example.org  ", Message: "Hello there"}); len(got) != 0 {
			t.Errorf("Validate() = %v, want no errors", got)
		}

		if checker.calls != 1 {
			t.Errorf("Expected a single delegation, got %d", checker.calls)
		}
	})

	t.Run("missing address skips delegation", func(t *testing.T) {
		checker := &acceptAll{}
		v := NewValidator(checker, Config{})

		_ = v.Validate(context.Background(), Values{Name: "Jane", Message: "Hello there"})
		if checker.calls != 0 {
			t.Errorf("Expected no delegation on a missing address, got %d", checker.calls)
		}
	})

	t.Run("field errors keep field order", func(t *testing.T) {
		v := NewValidator(rejectAll{reason: validator.ReasonInvalidFormat}, Config{})

		got := v.Validate(context.Background(), Values{Name: "J", Email: "not-an-email", Message: ""})
		want := FieldErrors{
			"Name must be at least 2 characters long",
			validator.ReasonInvalidFormat,
			"Message is required",
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Validate() = %v, want %v", got, want)
		}
	})
}

func TestFieldErrors_Join(t *testing.T) {
	fe := FieldErrors{"a", "b", "c"}
	if got := fe.Join(" | "); got != "a | b | c" {
		t.Errorf("Join() = %q", got)
	}

	if got := (FieldErrors{}).Join(" | "); got != "" {
		t.Errorf("Join() on empty = %q", got)
	}
}

func TestFieldErrors_Contains(t *testing.T) {
	fe := FieldErrors{"a", "b"}
	if !fe.Contains("b") || fe.Contains("c") {
		t.Errorf("Contains() misbehaved on %v", fe)
	}
}
