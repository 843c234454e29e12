package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/adapters/grpc/handler"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/core/team"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/platform/authz"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/platform/config"
	pg "github.com/ogurasousui/codex-grpc-team-scope/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/platform/logging"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/platform/metrics"
	"github.com/ogurasousui/codex-grpc-team-scope/internal/platform/server"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadEnv(); err != nil {
		logrus.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log, nil)
	if err != nil {
		logrus.Fatalf("failed to build logger: %v", err)
	}
	root := logger.WithField("service", "team-scope")

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		root.WithError(err).Fatal("failed to initialize database pool")
	}
	defer dbPool.Close()

	authorizer, err := authz.NewAuthorizer(cfg.Authz.ManagerRoles)
	if err != nil {
		root.WithError(err).Fatal("failed to initialize authorizer")
	}

	txManager := pg.NewTransactionManager(dbPool)
	hierarchy := postgres.NewHierarchyRepository(dbPool)
	store := postgres.NewStore(dbPool)
	teamSvc := team.NewService(hierarchy, store, nil, txManager, root)

	grpcServer := server.New(cfg.Server.ListenAddr, handler.NewTeamGrpcHandler(teamSvc, authorizer), root.WithField("component", "grpc"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		root.WithField("addr", cfg.Server.ListenAddr).Info("gRPC server listening")
		return grpcServer.Run(gctx)
	})
	if cfg.Server.MetricsAddr != "" {
		metricsServer := metrics.NewServer(cfg.Server.MetricsAddr, nil)
		g.Go(func() error {
			root.WithField("addr", cfg.Server.MetricsAddr).Info("metrics server listening")
			return metricsServer.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		root.WithError(err).Fatal("server stopped with error")
	}
	root.Info("server stopped")
}
