package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"biasbuster-backend/internal/config"
	delivery "biasbuster-backend/internal/delivery/http"
	"biasbuster-backend/internal/delivery/websocket"
	"biasbuster-backend/internal/domain"
	"biasbuster-backend/internal/infrastructure/db"
	"biasbuster-backend/internal/infrastructure/fcm"
	"biasbuster-backend/internal/infrastructure/marketdata"
	"biasbuster-backend/internal/repository"
	"biasbuster-backend/internal/usecase"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	// 1. Load environment and configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.FromEnv()

	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   true,
	}))
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize repositories
	positions := repository.NewFilePositionStore(cfg.PositionFile, cfg.SnapshotFile)
	snapshots := repository.NewInMemorySnapshotRepository()
	tokens := repository.NewTokenRepository()

	var history domain.HistoryRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfigFromEnv())
		if err != nil {
			log.Fatalf("Database pool: %v", err)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("Database migration: %v", err)
		}
		history = repository.NewPostgresHistoryRepository(pool, cfg.HistoryLimit)
		log.Println("Using Postgres history repository")
	} else {
		history = repository.NewFileHistoryRepository(cfg.HistoryFile, cfg.HistoryLimit)
		log.Println("Using file history repository")
	}

	// 3. Initialize infrastructure
	fcmClient, err := fcm.NewClient()
	if err != nil {
		log.Printf("FCM disabled: %v", err)
		fcmClient = &fcm.Client{}
	}

	baseURL := cfg.QuoteBaseURL
	if baseURL == "" {
		baseURL = marketdata.DefaultBaseURL
	}
	fetcher := marketdata.NewClient(baseURL, marketdata.RetryPolicy{
		Attempts: cfg.FetchRetries,
		Backoff:  cfg.FetchBackoff,
	})

	// 4. Initialize usecases and the engine
	trailing := usecase.TrailingConfig{
		MoveToBreakevenAtTP1: cfg.MoveToBreakevenAtTP1,
		MoveToTP1AtTP2:       cfg.MoveToTP1AtTP2,
	}
	notifier := usecase.NewNotifier(fcmClient, tokens, trailing)
	premarket := usecase.NewPremarketService(fetcher, 15*time.Minute)
	orb := usecase.NewOpeningRangeTracker(cfg.ORBFile)

	engine := usecase.NewEngine(usecase.EngineOptions{
		Fetcher:         fetcher,
		Positions:       positions,
		History:         history,
		Snapshots:       snapshots,
		Notifier:        notifier,
		Premarket:       premarket,
		ORB:             orb,
		Instruments:     config.Instruments(),
		Trailing:        trailing,
		Reentry:         usecase.DefaultReentryConfig(),
		SnapshotFile:    cfg.SnapshotFile,
		PollInterval:    cfg.PollInterval,
		PremarketWindow: cfg.PremarketWindow,
	})

	if cfg.RunOnce {
		engine.RunCycle()
		return
	}
	go engine.Run(ctx)

	// 5. Initialize delivery
	signalHandler := delivery.NewSignalHandler(snapshots, history, premarket)
	tokenHandler := delivery.NewTokenHandler(tokens)
	testHandler := delivery.NewTestHandler(fcmClient, tokens)
	wsHandler := websocket.NewHandler(snapshots)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", signalHandler.HandleHealth)
	mux.HandleFunc("/api/signals", signalHandler.HandleSignals)
	mux.HandleFunc("/api/history", signalHandler.HandleHistory)
	mux.HandleFunc("/api/premarket", signalHandler.HandlePremarket)
	mux.HandleFunc("/api/fcm/register", tokenHandler.HandleRegisterToken)
	mux.HandleFunc("/api/fcm/unregister", tokenHandler.HandleUnregisterToken)
	mux.HandleFunc("/api/fcm/count", tokenHandler.HandleGetTokenCount)
	mux.HandleFunc("/api/fcm/test", testHandler.SendTestNotification)
	mux.HandleFunc("/ws", wsHandler.Handle)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: mux}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Printf("Server executing on :%s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
