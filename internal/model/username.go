package model

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{2,29}$`)

// UsernameStore persists the username to principal mapping.
type UsernameStore interface {
	GetByUsername(ctx context.Context, username string) (UsernameEntry, error)
	GetByOwner(ctx context.Context, owner Principal) (UsernameEntry, error)
	// Claim atomically releases any name held by entry.Principal and binds
	// entry.Username to it. It returns ErrUsernameAlreadyTaken when the name
	// is held by a different principal, leaving the previous state intact.
	Claim(ctx context.Context, entry UsernameEntry) error
}

// UsernameEntry binds a unique username to a principal.
type UsernameEntry struct {
	Username  string
	Principal Principal
	UpdatedAt time.Time
}

// NormalizeUsername maps name to its canonical form: NFKC, case folded,
// trimmed. Names that differ only in case or compatibility form collide.
func NormalizeUsername(name string) (string, error) {
	canonical := cases.Fold().String(norm.NFKC.String(strings.TrimSpace(name)))
	if !usernamePattern.MatchString(canonical) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUsername, name)
	}
	return canonical, nil
}
