package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/converter"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/database"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/extractor"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/ingest"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/repository"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/scheduler"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/server"
)

var APP_NAME = os.Getenv("APP_NAME")

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.DebugLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	SetupLogger()
	defer handlePanic()

	if err := database.InitMainDB(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	svc := ingest.NewService(
		extractor.New(),
		converter.NewClient(),
		repository.NewMarketDataRepository(),
		repository.NewDiscountSettingRepository(),
		repository.NewDiscountValueRepository(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := scheduler.StartLoop(ctx, svc); err != nil {
			logger.WithError(err).Error("Sync loop exited with error")
		}
	}()

	server.StartServer(server.GetConfig(), svc)
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}
