package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-account-core/internal/app/core/adapter/in/grpc"
	memory_adapter "github.com/JoeShih716/go-account-core/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-account-core/internal/app/core/adapter/out/mysql"
	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
	"github.com/JoeShih716/go-account-core/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-core/internal/config"
	"github.com/JoeShih716/go-account-core/pkg/logger"
	"github.com/JoeShih716/go-account-core/pkg/mysql"
	"github.com/JoeShih716/go-account-core/pkg/wal"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config file")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 2. 註冊帳戶類型
	registry := domain.NewRegistry()
	for _, label := range cfg.AccountTypes {
		registry.Register(label, domain.LabeledConstructor(label))
	}
	log.Info("account types registered", "types", registry.Labels())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 建立帳本
	ledger, cleanup, err := buildLedger(ctx, cfg, registry, log)
	if err != nil {
		log.Fatal("failed to init ledger", "type", cfg.Ledger.Type, "error", err)
	}
	defer cleanup()

	// 4. 初始化 UseCase 與 gRPC Adapter
	coreUseCase := usecase.NewCoreUseCase(ledger, log)
	grpcServer := grpc_adapter.NewGrpcServer(coreUseCase)

	lis, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		log.Fatal("failed to listen", "addr", cfg.Server.Addr, "error", err)
	}

	s := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc_adapter.LoggingInterceptor(log)))
	grpc_adapter.RegisterAccountServiceServer(s, grpcServer)
	reflection.Register(s)

	go func() {
		log.Info("starting gRPC server", "addr", cfg.Server.Addr, "ledger", cfg.Ledger.Type)
		if err := s.Serve(lis); err != nil {
			log.Error("grpc server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")
	gracefulStop(s, cfg.Server.ShutdownTimeout)
	log.Info("server exited")
}

// buildLedger 依設定建立帳本，回傳的 cleanup 會關閉 WAL / 資料庫
func buildLedger(ctx context.Context, cfg *config.Config, registry *domain.Registry, log *logger.Logger) (usecase.Ledger, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("cleanup failed", "error", err)
			}
		}
	}
	fail := func(err error) (usecase.Ledger, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	var dbLedger *mysql_adapter.MySQLLedger
	if cfg.NeedsDB() {
		dbClient, err := mysql.NewClient(cfg.MySQL, log)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, dbClient.Close)
		log.Info("connected to database", "host", cfg.MySQL.Host, "db", cfg.MySQL.DBName)

		dbLedger = mysql_adapter.NewMySQLLedger(dbClient, registry)
		if err := dbLedger.AutoMigrate(ctx); err != nil {
			return fail(fmt.Errorf("migrate: %w", err))
		}
	}

	if cfg.Ledger.Type == config.LedgerMySQL {
		return dbLedger, cleanup, nil
	}

	var seed []domain.Snapshot
	if dbLedger != nil {
		var err error
		if seed, err = dbLedger.LoadAllAccounts(ctx); err != nil {
			return fail(fmt.Errorf("load accounts: %w", err))
		}
		log.Info("loaded accounts", "count", len(seed))
	}

	walFile, err := wal.NewWAL(cfg.Ledger.WALPath)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, walFile.Close)

	switch cfg.Ledger.Type {
	case config.LedgerMutex:
		l, err := memory_adapter.NewMutexLedger(registry, seed, walFile)
		if err != nil {
			return fail(err)
		}
		return l, cleanup, nil
	case config.LedgerLMAX:
		l, err := memory_adapter.NewLMAXLedger(registry, seed, walFile, cfg.Ledger.QueueSize)
		if err != nil {
			return fail(err)
		}
		// 事件迴圈要活到 gRPC server 停止之後，所以不跟著 signal ctx 結束
		engineCtx, cancel := context.WithCancel(context.Background())
		l.Start(engineCtx)
		closers = append(closers, func() error {
			cancel()
			return nil
		})
		return l, cleanup, nil
	default:
		return fail(fmt.Errorf("invalid ledger type: %s", cfg.Ledger.Type))
	}
}

// gracefulStop 等待進行中的 RPC 完成，逾時則強制關閉
func gracefulStop(s *grpc.Server, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.Stop()
	}
}
