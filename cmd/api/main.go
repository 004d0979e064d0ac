package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"chathub/internal/adapter/repo"
	"chathub/internal/http/handlers"
	"chathub/internal/http/httpapi"
	"chathub/internal/infra"
	"chathub/internal/infra/geoip"
	"chathub/internal/middleware"
	"chathub/internal/providers/chat"
	"chathub/internal/usage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	users := repo.NewUserRepository(dbpool)
	models := repo.NewChatModelRepository(dbpool)
	conversations := repo.NewConversationRepository(dbpool)
	payments := repo.NewPaymentRepository(dbpool)
	usageStats := repo.NewUsageStatRepository(dbpool)
	stats := repo.NewStatsRepository(dbpool)

	if err := models.EnsureDefaults(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed model catalog")
	}

	dispatcher := chat.NewDispatcherFromConfig(cfg, logger)
	accountant := usage.NewAccountant(users, usageStats, cfg.FreeDailyQuota)

	app := &handlers.App{
		Users:         users,
		Models:        models,
		Conversations: conversations,
		Payments:      payments,
		Stats:         stats,
		Accountant:    accountant,
		Chat:          dispatcher,
		Logger:        logger,
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	router := httpapi.NewRouter(app, cfg, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
