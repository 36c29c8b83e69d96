package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/converter"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/database"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/extractor"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/ingest"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/repository"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "Coffee Price CMD"
	app.Usage = "The coffee futures price pipeline command line interface"

	app.Commands = []cli.Command{
		syncCMD,
		syncOneCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	syncCMD = cli.Command{
		Name:        "sync",
		Usage:       "ingest prices for all instruments once",
		Action:      syncAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run one combined ingestion for RM and KC`,
	}
	syncOneCMD = cli.Command{
		Name:      "sync-one",
		Usage:     "ingest prices for a single instrument once",
		Action:    syncOneAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "instrument",
				Usage: "instrument root symbol (RM or KC)",
				Value: "RM",
			},
		},
		Description: `Run one ingestion for the given instrument`,
	}
)

func buildService() *ingest.Service {
	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	return ingest.NewService(
		extractor.New(),
		converter.NewClient(),
		repository.NewMarketDataRepository(),
		repository.NewDiscountSettingRepository(),
		repository.NewDiscountValueRepository(),
	)
}

func syncAction(_ *cli.Context) error {
	logrus.Info("Starting price sync CMD")

	svc := buildService()
	summary := svc.IngestAll(context.Background())

	for _, result := range summary.Results {
		entry := logrus.WithFields(map[string]interface{}{
			"instrument": result.Instrument,
			"stage":      result.Stage,
		})
		if result.Success {
			entry.Info("instrument ingested")
		} else {
			entry.Error(result.Message)
		}
	}

	if !summary.Success {
		return errors.New(summary.Message)
	}

	return nil
}

func syncOneAction(c *cli.Context) error {
	instrument, err := model.ParseInstrument(c.String("instrument"))
	if err != nil {
		return err
	}

	logrus.WithField("instrument", instrument).Info("Starting single instrument sync CMD")

	svc := buildService()
	result := svc.Ingest(context.Background(), instrument)
	if !result.Success {
		return fmt.Errorf("ingestion failed at %s: %s", result.Stage, result.Message)
	}

	return nil
}
