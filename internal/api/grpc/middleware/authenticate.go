package middleware

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/userindex/internal/logger"
	"github.com/dtroode/userindex/internal/model"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid authorization token")
)

// TokenParser resolves the caller principal from a bearer token.
type TokenParser interface {
	Parse(token string) (model.Principal, error)
}

// Authenticate validates bearer tokens and injects the caller principal into
// the context.
type Authenticate struct {
	tokens         TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the token and returns a
// context carrying the caller.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimPrefix(authHeaders[0], "Bearer ")
		}
	}

	principal, err := m.authenticate(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: rejected request", "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return m.contextManager.SetPrincipalToContext(ctx, principal), nil
}

func (m *Authenticate) authenticate(tokenString string) (model.Principal, error) {
	if tokenString == "" {
		return "", errMissingToken
	}

	principal, err := m.tokens.Parse(tokenString)
	if err != nil || principal.IsZero() {
		return "", errInvalidToken
	}

	return principal, nil
}
