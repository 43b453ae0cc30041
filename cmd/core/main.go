package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-mem-point/internal/app/core/adapter/in/grpc"
	memory_adapter "github.com/JoeShih716/go-mem-point/internal/app/core/adapter/out/memory"
	redis_adapter "github.com/JoeShih716/go-mem-point/internal/app/core/adapter/out/redis"
	sql_adapter "github.com/JoeShih716/go-mem-point/internal/app/core/adapter/out/sqlstore"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-point/internal/config"
	"github.com/JoeShih716/go-mem-point/pkg/logger"
	"github.com/JoeShih716/go-mem-point/pkg/metrics"
	"github.com/JoeShih716/go-mem-point/pkg/sqldb"
	pb "github.com/JoeShih716/go-mem-point/proto"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. 初始化 logger / metrics
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()
	collector := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 初始化儲存
	balances, histories, closeStore, err := openStores(ctx, cfg.Store, zlog)
	if err != nil {
		zlog.Fatal("Failed to open store", zap.String("type", string(cfg.Store.Type)), zap.Error(err))
	}
	defer closeStore()

	// 4. 初始化 UseCase
	pointService := usecase.NewPointService(balances, histories,
		usecase.WithLogger(zlog.Named("point")),
		usecase.WithMetrics(collector),
	)

	// 5. 初始化 gRPC Adapter
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.LoggingInterceptor(zlog.Named("grpc"))))
	pb.RegisterPointServiceServer(grpcServer, grpc_adapter.NewGrpcServer(pointService))
	reflection.Register(grpcServer)

	adminServer := &http.Server{
		Addr:    cfg.Server.AdminAddr,
		Handler: adminRouter(collector),
	}

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		zlog.Fatal("failed to listen", zap.String("addr", cfg.Server.GRPCAddr), zap.Error(err))
	}

	// 6. 啟動 gRPC 與 admin server，任一失敗或收到信號即關閉
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("Starting gRPC server", zap.String("addr", cfg.Server.GRPCAddr), zap.String("store", string(cfg.Store.Type)))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		zlog.Info("Starting admin server", zap.String("addr", cfg.Server.AdminAddr))
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return adminServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zlog.Error("Server exited with error", zap.Error(err))
		return
	}
	zlog.Info("Server exited")
}

// openStores 依 store type 建立點數與紀錄儲存
func openStores(ctx context.Context, cfg config.StoreConfig, zlog *zap.Logger) (usecase.BalanceStore, usecase.HistoryStore, func(), error) {
	switch cfg.Type {
	case config.StoreTypeMemory:
		return memory_adapter.NewBalanceStore(nil), memory_adapter.NewHistoryStore(), func() {}, nil

	case config.StoreTypeMySQL, config.StoreTypePostgres, config.StoreTypeSQLite:
		client, err := sqldb.NewClient(cfg.SQL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := sql_adapter.Migrate(ctx, client); err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		zlog.Info("Connected to database", zap.String("driver", client.Driver()))
		closeFn := func() {
			if err := client.Close(); err != nil {
				zlog.Warn("close database", zap.Error(err))
			}
		}
		return sql_adapter.NewBalanceStore(client, nil), sql_adapter.NewHistoryStore(client), closeFn, nil

	case config.StoreTypeRedis:
		client := redis_adapter.NewClient(cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		zlog.Info("Connected to redis", zap.String("addr", cfg.Redis.Addr))
		closeFn := func() {
			if err := client.Close(); err != nil {
				zlog.Warn("close redis", zap.Error(err))
			}
		}
		return redis_adapter.NewBalanceStore(client, cfg.Redis.KeyPrefix, nil),
			redis_adapter.NewHistoryStore(client, cfg.Redis.KeyPrefix), closeFn, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store type %q", cfg.Type)
}

func adminRouter(collector *metrics.Collector) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", collector.Handler())
	return r
}
