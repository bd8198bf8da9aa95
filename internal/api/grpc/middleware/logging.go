package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/userindex/internal/logger"
	"github.com/dtroode/userindex/internal/model"
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(contextManager model.ContextManager, logger *logger.Logger) *Logging {
	return &Logging{contextManager: contextManager, logger: logger}
}

// HandleGRPC logs method name, caller, duration and status for each unary
// request under a fresh request id.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	attrs := []any{"request_id", uuid.NewString(), "method", info.FullMethod}
	if principal, ok := l.contextManager.GetPrincipalFromContext(ctx); ok {
		attrs = append(attrs, "caller", principal.String())
	}

	l.logger.Debug("gRPC request started", attrs...)

	resp, err := handler(ctx, req)

	statusCode := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			statusCode = st.Code()
		} else {
			statusCode = codes.Internal
		}
	}

	attrs = append(attrs,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", statusCode.String())

	if err != nil {
		l.logger.Error("gRPC request failed", append(attrs, "error", err.Error())...)
		return resp, err
	}

	l.logger.Info("gRPC request completed", attrs...)
	return resp, nil
}
