package extractor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	logger "github.com/sirupsen/logrus"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

// Extractor captures the active futures contract quote for an instrument
// by rendering the source page in a headless browser and intercepting the
// quotes API response. The rendered DOM is decorative; the API response is
// the authoritative structured source.
type Extractor struct {
	cfg Config
}

// New builds an extractor from env config.
func New() *Extractor {
	return NewWithConfig(GetConfig())
}

// NewWithConfig builds an extractor with the given settings.
func NewWithConfig(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Snapshot extracts one OHLCV snapshot for the instrument. Each call spins
// up a fresh browser session and tears it down on every exit path; sessions
// are never reused across calls. One attempt only — retry policy belongs to
// the caller.
func (e *Extractor) Snapshot(ctx context.Context, instrument model.Instrument) (*model.Snapshot, error) {
	if !instrument.Valid() {
		return nil, &ExtractionError{Instrument: instrument, Reason: "unknown instrument"}
	}

	pageURL := fmt.Sprintf(e.cfg.QuotePageURL, instrument)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", e.cfg.ChromeHeadless),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, e.cfg.ExtractTimeout)
	defer cancelRun()

	// The quote XHR is identified by URL substring. The body can only be
	// pulled once loading finished, so response and loading events are
	// matched up by request ID.
	quoteReady := make(chan network.RequestID, 1)
	var pending sync.Map
	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *network.EventResponseReceived:
			if strings.Contains(ev.Response.URL, e.cfg.QuoteAPIPath) {
				pending.Store(ev.RequestID, struct{}{})
			}
		case *network.EventLoadingFinished:
			if _, ok := pending.Load(ev.RequestID); ok {
				select {
				case quoteReady <- ev.RequestID:
				default:
				}
			}
		}
	})

	logger.WithFields(map[string]interface{}{
		"component":  "Extractor",
		"instrument": instrument,
		"url":        pageURL,
	}).Info("Navigating to quote page")

	if err := chromedp.Run(runCtx,
		network.Enable(),
		chromedp.Navigate(pageURL),
	); err != nil {
		return nil, &ExtractionError{Instrument: instrument, Reason: "navigate to quote page", Err: err}
	}

	var requestID network.RequestID
	select {
	case requestID = <-quoteReady:
	case <-runCtx.Done():
		return nil, &ExtractionError{Instrument: instrument, Reason: "quote response never arrived", Err: runCtx.Err()}
	}

	var body []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		body, err = network.GetResponseBody(requestID).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, &ExtractionError{Instrument: instrument, Reason: "read quote response body", Err: err}
	}

	snapshot, err := parseQuotes(body, instrument)
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"component":  "Extractor",
		"instrument": instrument,
		"contract":   snapshot.Contract,
		"tradeDate":  snapshot.TradeDate.Format("2006-01-02"),
		"close":      snapshot.Close,
	}).Info("Captured active contract snapshot")

	return snapshot, nil
}
