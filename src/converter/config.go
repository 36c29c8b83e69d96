package converter

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	RateAPIBaseURL string        `envconfig:"RATE_API_BASE_URL" default:"https://open.er-api.com"`
	RateTimeout    time.Duration `envconfig:"RATE_TIMEOUT" default:"10s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
