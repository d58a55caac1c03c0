package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/app"
	"github.com/uybinhphan/goatcounter-bot/internal/common"
)

func main() {
	// Secrets and overrides may live in a local .env file.
	_ = godotenv.Load()

	botMode := flag.Bool("bot", false, "run the Telegram bot and keep-alive server instead of a single check pass")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	logger, err := newLogger(env)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	mode := common.ModeCheck
	if *botMode {
		mode = common.ModeBot
	}

	application := app.NewApplication(
		common.WithLogger(logger),
		common.WithEnv(env),
		common.WithMode(mode),
	)

	// Start with background context
	if err := application.Start(context.Background()); err != nil {
		logger.Fatal("failed to start application", zap.Error(err))
	}

	// Block until a shutdown signal arrives or, in check mode, until the
	// pass completes and the application shuts itself down.
	sig := <-application.Done()
	if sig != nil {
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	// Stop with timeout
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := application.Stop(stopCtx); err != nil {
		logger.Fatal("failed to stop application gracefully", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
