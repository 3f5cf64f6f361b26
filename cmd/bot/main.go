package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/app"
	"beboa.bot/discord-bot/internal/config"
)

func main() {
	// .env is optional; in Docker everything comes from the environment.
	_ = godotenv.Load()

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := log.ParseLevel(cfg.AppLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}
	defer application.Close()

	if err := application.Scheduler.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start scheduler")
	}

	if err := application.Bot.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to start bot")
	}

	// Block until SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.WithField("signal", sig.String()).Info("Shutting down")
	cancel()
	application.Bot.Stop()
	application.Scheduler.Stop()
	log.Info("Shutdown complete")
}
