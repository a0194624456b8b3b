package types

import (
	"errors"
	"strings"
)

var (
	ErrInvalidEmailAddress = errors.New("invalid e-mail address, address is missing @")
)

// NewEmailParts decomposes an e-mail address into a local and a domain part. The domain part is
// lower-cased, it's case-insensitive by definition.
func NewEmailParts(emailAddress string) (EmailParts, error) {
	i := strings.LastIndex(emailAddress, "@")
	if 0 >= i || i >= len(emailAddress)-1 {
		return EmailParts{}, ErrInvalidEmailAddress
	}

	return EmailParts{
		Address: emailAddress,
		Local:   emailAddress[:i],
		Domain:  strings.ToLower(emailAddress[i+1:]),
	}, nil
}

// NewEmailFromParts is the inverse of NewEmailParts
func NewEmailFromParts(local, domain string) EmailParts {
	return EmailParts{
		Address: local + "@" + domain,
		Local:   local,
		Domain:  domain,
	}
}

type EmailParts struct {
	Address string
	Local   string
	Domain  string
}
