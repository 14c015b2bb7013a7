package module

import (
	"time"

	"churnserve/internal/platform/config"
)

// Options controls the churn serving module
type Options struct {
	StrictBounds bool
	RateRPS      float64
	RateBurst    int
	RateIdleTTL  time.Duration
}

// FromConfig reads with CHURN_API_ prefix, a zero rate disables limiting
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CHURN_API_")
	return Options{
		StrictBounds: c.MayBool("STRICT_BOUNDS", false),
		RateRPS:      c.MayFloat64("RATE_RPS", 0),
		RateBurst:    c.MayInt("RATE_BURST", 0),
		RateIdleTTL:  c.MayDuration("RATE_IDLE_TTL", 10*time.Minute),
	}
}
