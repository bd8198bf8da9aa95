package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/dtroode/userindex/internal/api/grpc/handler"
	"github.com/dtroode/userindex/internal/api/grpc/indexrpc"
	"github.com/dtroode/userindex/internal/api/grpc/middleware"
	"github.com/dtroode/userindex/internal/logger"
	"github.com/dtroode/userindex/internal/model"
)

// Router registers the user index service and its interceptor chain.
type Router struct {
	services       handler.Services
	tokens         middleware.TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	services handler.Services,
	tokens middleware.TokenParser,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

// requiresAuth reports whether the call must carry a bearer token.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	_, public := indexrpc.PublicMethods[c.FullMethod()]
	return !public
}

// Register builds the gRPC server with recovery, authentication and request
// logging, in that order, and registers the index service on it.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	recovering := middleware.NewRecovery(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	logging := middleware.NewLogging(r.contextManager, r.logger)

	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovering.Options()...),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
			logging.HandleGRPC,
		),
	)

	s := grpc.NewServer(opts...)
	indexrpc.RegisterUserIndexServer(s, handler.NewIndex(r.services, r.contextManager, r.logger))

	return s
}
