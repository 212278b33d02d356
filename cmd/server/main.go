package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/dispatcher"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/application/service"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/config"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/infrastructure/external/tally"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/infrastructure/notify"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/infrastructure/persistence/repository"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/infrastructure/worker"
	httpadapter "github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/interfaces/http"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/report"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/pkg/database"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/pkg/utils"
)

func main() {
	// Local overrides for development; missing .env is fine
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting payment reconciliation service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	paymentRepo := repository.NewPaymentRepository(db.DB, logger)
	chequeRepo := repository.NewChequeRepository(db.DB, logger)
	walletRepo := repository.NewWalletRepository(db.DB, logger)
	outstandingRepo := repository.NewOutstandingRepository(db.DB, logger)
	bankRepo := repository.NewBankRepository(db.DB, logger)
	daybookRepo := repository.NewDaybookRepository(db.DB, logger)

	// Ledger gateway
	gateway := tally.NewClient(tally.Config{
		BaseURL:        cfg.Tally.BaseURL,
		CompanyName:    cfg.Tally.CompanyName,
		TargetBook:     cfg.Tally.TargetBook,
		CheckTimeout:   cfg.Tally.CheckTimeout,
		RequestTimeout: cfg.Tally.RequestTimeout,
	}, logger)

	// Event dispatcher and service-layer logger
	svcLogger := utils.NewSugarAdapter(logger)
	events := dispatcher.NewDispatcher(dispatcher.WithLogger(svcLogger))
	defer events.Close()

	// Application services
	chequeService := service.NewChequeService(chequeRepo, bankRepo, gateway, events, cfg.Tally.TargetBook, svcLogger)
	walletMatcher := service.NewWalletMatcherService(walletRepo, events, svcLogger)
	paymentService := service.NewPaymentService(paymentRepo, chequeService, walletMatcher, events, service.PaymentServiceConfig{
		CompanyName:      cfg.Reconciliation.CompanyName,
		StrictVersioning: cfg.Reconciliation.StrictVersioning,
	}, svcLogger)
	outstandingService := service.NewOutstandingService(outstandingRepo, gateway, events, svcLogger)
	daybookService := service.NewDaybookService(daybookRepo, svcLogger)
	bankService := service.NewBankService(bankRepo, svcLogger)

	// Notifications
	if cfg.Lark.Enabled {
		notifier := notify.NewLarkNotifier(notify.Config{
			Enabled:   cfg.Lark.Enabled,
			AppID:     cfg.Lark.AppID,
			AppSecret: cfg.Lark.AppSecret,
			ChatID:    cfg.Lark.ChatID,
		}, logger)
		notify.RegisterPaymentSubscriber(events, notifier, logger)
	}

	exporter := report.NewAgeingExporter(cfg.Reconciliation.CompanyName, logger)

	// Background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workers := worker.NewManager(logger)
	workers.Register(worker.NewChequeSyncWorker(
		chequeRepo, chequeService, gateway,
		cfg.Worker.ChequeSyncInterval, cfg.Worker.ChequeSyncBatchSize, logger))
	if cfg.Worker.OutstandingRefresh {
		workers.Register(worker.NewOutstandingRefreshWorker(
			outstandingService, gateway, cfg.Worker.OutstandingInterval, logger))
	}
	if err := workers.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}

	// HTTP server
	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpadapter.Services{
		Payments:    paymentService,
		Cheques:     chequeService,
		Wallet:      walletMatcher,
		Outstanding: outstandingService,
		Daybook:     daybookService,
		Banks:       bankService,
		Exporter:    exporter,
	}, svcLogger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	cancel()
	if err := workers.StopAll(); err != nil {
		logger.Error("Worker shutdown error", zap.Error(err))
	}
	if err := server.Stop(); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
