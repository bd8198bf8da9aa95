package model

import (
	"fmt"
	"strings"
)

// maxPrincipalLength bounds the textual form of a principal.
const maxPrincipalLength = 63

// Principal is an opaque, globally unique identity in its textual form.
type Principal string

// InstanceHandle addresses a provisioned per-user instance. Handles are
// principals issued by the fleet controller.
type InstanceHandle = Principal

// ParsePrincipal validates the textual form of a principal.
func ParsePrincipal(s string) (Principal, error) {
	if s == "" || len(s) > maxPrincipalLength {
		return "", fmt.Errorf("%w: length %d", ErrInvalidPrincipal, len(s))
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPrincipal, s)
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return "", fmt.Errorf("%w: %q", ErrInvalidPrincipal, s)
		}
	}

	return Principal(s), nil
}

// ParseOptionalPrincipal returns nil for an empty string.
func ParseOptionalPrincipal(s string) (*Principal, error) {
	if s == "" {
		return nil, nil
	}
	p, err := ParsePrincipal(s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// String implements fmt.Stringer.
func (p Principal) String() string {
	return string(p)
}

// IsZero reports whether p is empty.
func (p Principal) IsZero() bool {
	return p == ""
}

// MarshalText implements encoding.TextMarshaler.
func (p Principal) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and validates the input.
func (p *Principal) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = ""
		return nil
	}
	parsed, err := ParsePrincipal(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
