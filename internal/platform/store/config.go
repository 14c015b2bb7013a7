package store

import (
	"time"

	"churnserve/internal/platform/config"
)

// Config aggregates backend configuration
type Config struct {
	AppName string
	PG      PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	AppName     string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// FromConfig reads SERVICE_PGSQL_* keys; postgres is enabled when a url is set
func FromConfig(appName string, conf config.Conf) Config {
	c := conf.Prefix("SERVICE_PGSQL_")
	url := c.MayString("DBURL", "")
	return Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:        url != "",
			URL:            url,
			AppName:        appName,
			MaxConns:       int32(c.MayInt("MAX_CONNS", 4)),
			LogSQL:         c.MayBool("LOG_SQL", false),
			SlowQueryMs:    c.MayInt("SLOW_MS", 200),
			ConnectRetries: c.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    c.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
	}
}
