package validator

import (
	"context"
	"regexp"

	"github.com/venkm/formrelay/types"
)

// The user-facing reasons accompanying a validation result. Rejections carry a reason explaining
// the rejection, acceptances either a confirmation or a warning that no verification took place.
const (
	ReasonInvalidFormat     = "Invalid email format. Please enter a valid email address."
	ReasonNoSuchAddress     = "This email address does not exist or cannot receive emails. Please check for typos and try again."
	ReasonLookupUnavailable = "Email accepted (validation unavailable)"
	ReasonLookupDisabled    = "Email accepted (validation disabled)"
	ReasonValidated         = "Email validated successfully"
)

// emailFormat requires local-part@domain.tld, with a final label of two or more letters. It
// doesn't try to be fully RFC compliant, it weeds out the common mistakes.
var emailFormat = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Result is the outcome of validating a single e-mail address
type Result struct {
	Accepted bool
	Reason   string
}

// NewEmailAddressValidator constructs a validator around a resolver. A nil resolver means the
// lookup capability is absent: format-valid addresses are then accepted with a warning reason,
// since no enforcement is possible. With strict disabled, format-valid addresses are accepted
// without consulting the resolver at all. The two switches are deliberately independent.
func NewEmailAddressValidator(resolver Resolver, strict bool) EmailAddressValidator {
	return EmailAddressValidator{
		resolver: resolver,
		strict:   strict,
	}
}

type EmailAddressValidator struct {
	resolver Resolver
	strict   bool
}

// Validate runs the validation pipeline on an address, short-circuiting on the first failure:
// format first, then the gated existence check. Every lookup outcome other than LookupExists is
// a rejection, a timeout included -- failing safe on ambiguity.
func (v EmailAddressValidator) Validate(ctx context.Context, email string) Result {
	if !emailFormat.MatchString(email) {
		return Result{Accepted: false, Reason: ReasonInvalidFormat}
	}

	if v.resolver == nil {
		return Result{Accepted: true, Reason: ReasonLookupUnavailable}
	}

	if !v.strict {
		return Result{Accepted: true, Reason: ReasonLookupDisabled}
	}

	parts, err := types.NewEmailParts(email)
	if err != nil {
		return Result{Accepted: false, Reason: ReasonInvalidFormat}
	}

	if outcome := domainHasMailExchange(ctx, v.resolver, parts.Domain); outcome != LookupExists {
		return Result{Accepted: false, Reason: ReasonNoSuchAddress}
	}

	return Result{Accepted: true, Reason: ReasonValidated}
}

// HasMailExchange exposes the lookup adapter on its own, without the format check or the gating.
// A single lookup attempt is made per call.
func (v EmailAddressValidator) HasMailExchange(ctx context.Context, domain string) LookupOutcome {
	return domainHasMailExchange(ctx, v.resolver, domain)
}

// ValidFormat reports whether the address passes the format check on its own
func ValidFormat(email string) bool {
	return emailFormat.MatchString(email)
}
