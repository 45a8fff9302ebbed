package notifier

import "time"

// RateConfig holds the per-user delivery budgets. Push shares the in-app
// budget: both are low-cost channels compared to email.
type RateConfig struct {
	Window    time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	MaxEmails int           `env:"RATE_LIMIT_MAX_EMAILS" envDefault:"10"`
	MaxInApp  int           `env:"RATE_LIMIT_MAX_IN_APP" envDefault:"50"`
}
