package model

import "time"

// TokenManager issues and validates caller identity tokens.
type TokenManager interface {
	Generate(principal Principal, ttl time.Duration) (string, error)
	Parse(token string) (Principal, error)
}
