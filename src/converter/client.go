package converter

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
)

// FallbackUSDIDRRate is substituted whenever the rate service cannot
// deliver a usable rate. A missing conversion rate must never block
// ingestion of the underlying price data.
var FallbackUSDIDRRate = decimal.NewFromInt(16000)

const latestUSDPath = "/v6/latest/USD"

type rateResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// Client fetches the USD→IDR exchange rate from the external rate service.
type Client struct {
	http *resty.Client
}

// NewClient builds a converter client from env config.
func NewClient() *Client {
	return NewClientWithConfig(GetConfig())
}

// NewClientWithConfig builds a converter client against the given base URL
// and timeout.
func NewClientWithConfig(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.RateAPIBaseURL, "/")).
		SetTimeout(cfg.RateTimeout)

	return &Client{http: httpClient}
}

// UsdToIdrRate returns the current USD→IDR rate, or the fallback constant
// on any failure. It never returns an error: conversion degrades, it does
// not abort the pipeline.
func (c *Client) UsdToIdrRate(ctx context.Context) decimal.Decimal {
	var decoded rateResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&decoded).
		Get(latestUSDPath)
	if err != nil {
		logger.WithError(err).Warn("Rate service request failed, using fallback USD/IDR rate")
		return FallbackUSDIDRRate
	}

	if resp.IsError() {
		logger.WithFields(map[string]interface{}{
			"status": resp.StatusCode(),
		}).Warn("Rate service returned an error status, using fallback USD/IDR rate")
		return FallbackUSDIDRRate
	}

	if decoded.Result != "" && decoded.Result != "success" {
		logger.WithField("result", decoded.Result).
			Warn("Rate service reported failure, using fallback USD/IDR rate")
		return FallbackUSDIDRRate
	}

	idr, ok := decoded.Rates["IDR"]
	if !ok || idr <= 0 {
		logger.WithField("idr", idr).
			Warn("Rate service response missing a positive IDR rate, using fallback")
		return FallbackUSDIDRRate
	}

	rate := decimal.NewFromFloat(idr)

	logger.WithFields(map[string]interface{}{
		"rate":      rate,
		"fetchedAt": time.Now().UTC(),
	}).Info("Fetched USD/IDR rate")

	return rate
}
