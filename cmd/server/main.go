package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/cart-store/internal/adapter/handler"
	"github.com/rl1809/cart-store/internal/adapter/handler/pb"
	"github.com/rl1809/cart-store/internal/adapter/storage"
	"github.com/rl1809/cart-store/internal/config"
	"github.com/rl1809/cart-store/internal/core/service"
	"github.com/rl1809/cart-store/internal/port"
)

const evictInterval = time.Minute

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cart-server",
	Short: "Session cart store with HTTP and gRPC APIs",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and seed the product catalog schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCatalog(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.Migrate(cmd.Context(), db, cfg.Catalog.Driver); err != nil {
			return err
		}
		logger.Info("catalog migrated", zap.String("driver", cfg.Catalog.Driver))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

func openCatalog(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(cfg.Catalog.Driver, cfg.CatalogDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Catalog.Driver, err)
	}
	db.SetMaxOpenConns(cfg.Catalog.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Catalog.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.Catalog.Driver, err)
	}
	logger.Info("connected to catalog", zap.String("driver", cfg.Catalog.Driver))
	return db, nil
}

func openSnapshots(ctx context.Context) (port.SnapshotRepository, func(), error) {
	if cfg.Snapshot.Backend == "memory" {
		logger.Warn("using in-memory cart snapshots, carts will not survive a restart")
		return storage.NewMemoryAdapter(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Snapshot.RedisAddr,
		Password: cfg.Snapshot.RedisPassword,
		DB:       cfg.Snapshot.RedisDB,
		PoolSize: cfg.Snapshot.PoolSize,
	})
	adapter := storage.NewRedisAdapter(rdb, cfg.SnapshotTTL())
	if err := adapter.Ping(ctx); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Snapshot.RedisAddr))

	return adapter, func() { rdb.Close() }, nil
}

func serve(ctx context.Context) error {
	db, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Catalog.Migrate {
		if err := storage.Migrate(ctx, db, cfg.Catalog.Driver); err != nil {
			return err
		}
		logger.Info("catalog migrated", zap.String("driver", cfg.Catalog.Driver))
	}

	products, err := storage.NewProductRepository(cfg.Catalog.Driver, db)
	if err != nil {
		return err
	}

	snapshots, closeSnapshots, err := openSnapshots(ctx)
	if err != nil {
		return err
	}
	defer closeSnapshots()

	registryOpts := []service.RegistryOption{service.WithIdleTimeout(cfg.StoreIdleTimeout())}
	if cfg.Snapshot.Backend == "redis" {
		registryOpts = append(registryOpts, service.WithSnapshotTTL(cfg.SnapshotTTL()))
	}
	carts := service.NewCartRegistry(snapshots, logger, registryOpts...)
	wishlists := service.NewWishlistRegistry(snapshots, logger, registryOpts...)
	cartService := service.NewCartService(carts, products, logger)
	wishlistService := service.NewWishlistService(wishlists, products, logger)

	// gRPC
	grpcServer := grpc.NewServer()
	pb.RegisterCartServiceServer(grpcServer, handler.NewGRPCHandler(cartService, wishlistService, logger))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	// HTTP
	router := mux.NewRouter()
	handler.NewHTTPHandler(cartService, wishlistService, logger).RegisterRoutes(router)
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return carts.Run(gctx, evictInterval) })
	g.Go(func() error { return wishlists.Run(gctx, evictInterval) })

	g.Go(func() error {
		logger.Info("gRPC server listening", zap.String("addr", cfg.Server.GRPCAddr))
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown", zap.Error(err))
		}
		logger.Info("HTTP server stopped")

		// WatchCart streams only end when their clients leave.
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			grpcServer.Stop()
		}
		logger.Info("gRPC server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("connections closed")
	return nil
}
