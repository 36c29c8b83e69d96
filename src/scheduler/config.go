package scheduler

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	SyncEnabled bool          `envconfig:"SYNC_ENABLED" default:"true"`
	SyncPeriod  time.Duration `envconfig:"SYNC_PERIOD" default:"24h"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
