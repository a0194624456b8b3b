package validator

import (
	"context"
	"errors"
	"net"
)

// LookupOutcome is the result of a single mail-exchange lookup on a domain.
type LookupOutcome uint8

const (
	// LookupExists means the domain publishes at least one usable MX record
	LookupExists LookupOutcome = iota

	// LookupNoSuchDomain means the resolver reported the domain as non-existent
	LookupNoSuchDomain

	// LookupNoMailRecords means the domain exists, but publishes no usable MX record
	LookupNoMailRecords

	// LookupTimeout means the resolver exceeded its deadline. Callers should treat this as a
	// rejection, never as a pass
	LookupTimeout

	// LookupUnavailable means no resolver is configured, the caller decides whether to fail
	// open or closed
	LookupUnavailable
)

func (l LookupOutcome) String() string {
	switch l {
	case LookupExists:
		return "exists"
	case LookupNoSuchDomain:
		return "no such domain"
	case LookupNoMailRecords:
		return "no mail records"
	case LookupTimeout:
		return "timeout"
	case LookupUnavailable:
		return "unavailable"
	}

	return "unknown"
}

// Resolver is the subset of net.Resolver the lookups need
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// domainHasMailExchange performs a single MX lookup on the domain and classifies the result. No
// retries are performed. A successful lookup is followed by a supplementary A-record check, of
// which the result is ignored: MX presence alone settles the outcome.
func domainHasMailExchange(ctx context.Context, resolver Resolver, domain string) LookupOutcome {
	if resolver == nil {
		return LookupUnavailable
	}

	mxs, err := resolver.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			switch {
			case dnsErr.IsTimeout:
				return LookupTimeout
			case dnsErr.IsNotFound:
				return LookupNoSuchDomain
			}
		}

		if errors.Is(err, context.DeadlineExceeded) {
			return LookupTimeout
		}

		return LookupNoMailRecords
	}

	var usable uint
	for _, mx := range mxs {
		if mightBeAHost(canonicalHost(mx.Host)) {
			usable++
		}
	}

	if usable == 0 {
		return LookupNoMailRecords
	}

	_, _ = resolver.LookupIPAddr(ctx, domain)

	return LookupExists
}

// canonicalHost strips the trailing dot hosts in MX answers typically carry
func canonicalHost(host string) string {
	for len(host) > 0 && host[len(host)-1] == '.' {
		host = host[:len(host)-1]
	}

	return host
}

// mightBeAHost is a rudimentary check to see if the argument could be a host name or IP address.
// It aims for speed, not correctness. It weeds out bogus MX answers such as a solitary '.'.
func mightBeAHost(h string) bool {
	lastCharIndex := len(h) - 1
	if 4 >= lastCharIndex || lastCharIndex >= 253 {
		return false
	}

	var dotCount uint8
	for i, c := range h {
		switch {
		case '0' <= c && c <= '9':
		case 'A' <= c && c <= 'Z':
		case 'a' <= c && c <= 'z':
		case c == '-':
		case c == '.' && 0 < i && i < lastCharIndex:
			dotCount++
		default:
			return false
		}
	}

	return dotCount > 0
}
