// Package auth resolves an inbound credential to a user identity.
package auth

import (
	"strconv"
	"strings"
)

// Resolver maps a bearer credential to a user ID. Implementations must be
// stateless; the zero user ID is never a valid identity.
type Resolver interface {
	// Resolve returns the user ID embedded in the credential, or false when
	// the credential is missing or malformed.
	Resolve(credential string) (int64, bool)
}

// DemoTokenResolver parses the storefront demo scheme "demo-token-{userID}".
// It stands in for a real session or JWT verifier; anything returning a
// stable user ID behind Resolver is a drop-in replacement.
type DemoTokenResolver struct{}

var _ Resolver = DemoTokenResolver{}

// Resolve extracts the numeric user ID from a "demo-token-{id}" credential.
func (DemoTokenResolver) Resolve(credential string) (int64, bool) {
	parts := strings.Split(credential, "-")
	if len(parts) != 3 || parts[0] != "demo" || parts[1] != "token" {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
