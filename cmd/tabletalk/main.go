package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tabletalk/tabletalk/internal/chat"
	"github.com/tabletalk/tabletalk/internal/config"
	"github.com/tabletalk/tabletalk/internal/dispatcher"
	"github.com/tabletalk/tabletalk/internal/llm"
	"github.com/tabletalk/tabletalk/internal/records"
	"github.com/tabletalk/tabletalk/internal/server"
)

// AppState holds all application services
type AppState struct {
	DB         *bun.DB
	Provider   records.Provider
	Dispatcher *dispatcher.Dispatcher
	LLM        *llm.Client
	Logger     *zap.Logger
}

func main() {
	serve := flag.Bool("serve", false, "run the HTTP API instead of the chat console")
	mode := flag.String("mode", "", "chat mode: command or sql (overrides config)")
	flag.Parse()

	// Load configuration
	config.Load()

	// Initialize logger with config
	logger := initLogger()
	defer func() { _ = logger.Sync() }()

	as, err := newAppState(logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}
	defer func() { _ = as.DB.Close() }()

	ctx := context.Background()
	if err := records.CreateTables(ctx, as.DB); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	if *serve {
		runServer(as, logger)
		return
	}

	chatMode := config.Chat().Mode
	if *mode != "" {
		chatMode = *mode
	}

	session := chat.NewSession(as.LLM, as.Dispatcher, as.DB, logger, os.Stdin, os.Stdout, chat.Options{
		Mode:         chatMode,
		HistoryLimit: config.Chat().HistoryLimit,
		Spinner:      true,
	})

	if err := session.Run(ctx); err != nil {
		logger.Fatal("Chat session failed", zap.Error(err))
	}
}

// newAppState creates and initializes the application state
func newAppState(logger *zap.Logger) (*AppState, error) {
	dbConfig := config.Database()

	db, err := records.Open(records.Config{
		Driver:      dbConfig.Driver,
		SqlitePath:  dbConfig.Sqlite.Path,
		PostgresDSN: dbConfig.Postgres.DSN(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger.Info("Database opened",
		zap.String("driver", dbConfig.Driver))

	provider := records.NewConnProvider(db)
	disp := dispatcher.New(provider, logger)

	llmConfig := config.LLM()
	llmClient := llm.NewClient(llm.ClientConfig{
		BaseURL: llmConfig.BaseURL,
		Model:   llmConfig.Model,
		Timeout: time.Duration(llmConfig.TimeoutSeconds) * time.Second,
	}, logger)

	return &AppState{
		DB:         db,
		Provider:   provider,
		Dispatcher: disp,
		LLM:        llmClient,
		Logger:     logger,
	}, nil
}

func runServer(as *AppState, logger *zap.Logger) {
	srv := server.NewServer(as.Dispatcher, as.Provider, logger)
	router := srv.SetupRouter()

	addr := fmt.Sprintf("%s:%d", config.Http().Host, config.Http().Port)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	done := setupSignalHandler(httpServer, logger)

	logger.Info("Starting tabletalk server", zap.String("address", addr))

	err := httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	// Set log level
	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupSignalHandler(server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		// Create context with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		done <- struct{}{}
	}()

	return done
}
