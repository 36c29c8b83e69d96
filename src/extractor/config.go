package extractor

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// QuotePageURL is the rendered futures page, templated with the
	// instrument root symbol.
	QuotePageURL string `envconfig:"QUOTE_PAGE_URL" default:"https://www.barchart.com/futures/quotes/%s*0/futures-prices"`
	// QuoteAPIPath identifies the XHR whose response body carries the
	// structured contract quotes.
	QuoteAPIPath   string        `envconfig:"QUOTE_API_PATH" default:"core-api/v1/quotes"`
	ExtractTimeout time.Duration `envconfig:"EXTRACT_TIMEOUT" default:"60s"`
	ChromeHeadless bool          `envconfig:"CHROME_HEADLESS" default:"true"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
