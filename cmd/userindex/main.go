package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/userindex/internal/api/admin"
	grpcctx "github.com/dtroode/userindex/internal/api/grpc/context"
	"github.com/dtroode/userindex/internal/api/grpc/handler"
	"github.com/dtroode/userindex/internal/api/grpc/router"
	grpcServer "github.com/dtroode/userindex/internal/api/grpc/server"
	"github.com/dtroode/userindex/internal/config"
	"github.com/dtroode/userindex/internal/fleet"
	"github.com/dtroode/userindex/internal/logger"
	"github.com/dtroode/userindex/internal/model"
	"github.com/dtroode/userindex/internal/repository/memory"
	"github.com/dtroode/userindex/internal/repository/postgres"
	"github.com/dtroode/userindex/internal/server"
	"github.com/dtroode/userindex/internal/service"
	storage "github.com/dtroode/userindex/internal/storage/minio"
	"github.com/dtroode/userindex/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

type stores struct {
	identities model.IdentityStore
	usernames  model.UsernameStore
	statuses   model.StatusStore
	release    func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	bootstrap, err := config.LoadBootstrap(cfg.BootstrapFile)
	if err != nil {
		logger.Fatal("failed to load bootstrap file", "error", err)
	}
	authority := service.NewAuthority(bootstrap.KnownPrincipals, bootstrap.AccessControl)

	st, err := openStores(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer st.release()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	archive, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	conn, err := fleet.Dial(cfg.Fleet.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal("failed to connect to fleet controller", "error", err)
	}
	defer conn.Close()

	self, ok := authority.KnownPrincipal(model.KnownCanisterIDUserIndex)
	if !ok {
		logger.Warn("own principal is not configured, fleet calls will be anonymous",
			"tag", model.KnownCanisterIDUserIndex)
	}
	fleetClient := fleet.NewClient(conn, self, cfg.Fleet.CallTimeout)

	registry := service.NewRegistry(st.identities, st.statuses, fleetClient, authority, logger)
	usernames := service.NewUsernames(st.usernames, st.identities, logger)
	upgrader := service.NewUpgrader(registry, st.statuses, fleetClient, authority, cfg.Upgrade.Concurrency, logger)
	defer upgrader.Close()
	backups := service.NewBackups(registry, st.statuses, fleetClient, archive, authority, cfg.Backup.Concurrency, logger)
	defer backups.Close()
	cycles := service.NewCycles(fleetClient, authority)

	services := handler.Services{
		Registry:  registry,
		Usernames: usernames,
		Upgrades:  upgrader,
		Backups:   backups,
		Access:    authority,
		Cycles:    cycles,
	}

	r := router.New(services, token.NewJWT(cfg.JWT.Secret), grpcctx.NewManager(), logger)
	gs := r.Register()
	reflection.Register(gs)

	servers := []model.Server{
		grpcServer.NewGRPCServer(gs, fmt.Sprintf(":%s", cfg.GRPC.Port)),
		admin.NewServer(cfg.HTTP.Addr, upgrader, backups, registry, logger),
	}
	sl := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s)
	}

	logAppVersion()

	if cfg.Upgrade.OnStart {
		if err := upgrader.Start(model.InstallModeUpgrade); err != nil {
			logger.Error("failed to start upgrade on startup", "error", err)
		}
	}

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg config.Database, logger *logger.Logger) (stores, error) {
	if cfg.DSN == "" {
		logger.Warn("DATABASE_DSN is empty, registry state is kept in memory only")
		s := memory.New()
		return stores{identities: s, usernames: s, statuses: s, release: func() {}}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.DSN, postgres.PoolOptions{
		MaxConns:        cfg.MaxConns,
		MaxConnLifetime: cfg.MaxConnLifetime,
	})
	if err != nil {
		return stores{}, err
	}

	return stores{
		identities: postgres.NewIdentityRepository(db),
		usernames:  postgres.NewUsernameRepository(db),
		statuses:   postgres.NewStatusRepository(db),
		release:    func() { _ = db.Close() },
	}, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
