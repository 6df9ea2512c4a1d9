package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/stonehall/stonehall-backend/internal/config"
	"github.com/stonehall/stonehall-backend/internal/engine"
	"github.com/stonehall/stonehall-backend/internal/repository"
	"github.com/stonehall/stonehall-backend/internal/repository/storage"
	"github.com/stonehall/stonehall-backend/internal/repository/storage/sqlite"
	"github.com/stonehall/stonehall-backend/internal/service"
	"github.com/stonehall/stonehall-backend/internal/usecase"
	"github.com/stonehall/stonehall-backend/transport/rest"
	"github.com/stonehall/stonehall-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := sqlite.New(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	sessionRepo := repository.NewGameRepository(redisStorage)
	playerRepo := repository.NewPlayerRepository(redisStorage)
	userRepo := repository.NewUserRepository(sqliteStorage.Connection)

	accountService := service.NewAccountService(userRepo)
	authService := service.NewAuthService(conf.JWTSecretKey)
	botService := service.NewBotService()

	gameManager := usecase.NewGameManager(
		logger,
		engine.DefaultRegistry(),
		sessionRepo,
		playerRepo,
		botService,
		accountService,
		conf.SaveDir,
		conf.ReplayDir,
	)
	userUseCase := usecase.NewUserUseCase(accountService, authService)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restHandlers := rest.NewHandlers(logger, userUseCase, conf.ReplayDir)
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, restHandlers); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager, userUseCase)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
