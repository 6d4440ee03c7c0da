package ingest

import "time"

// Config holds configuration for the ingestion worker
type Config struct {
	// PollInterval is how often a full ingestion cycle runs
	PollInterval time.Duration

	// MaxPages is the hard page cap per wallet per cycle
	MaxPages int

	// PageDelay is the delay between successive page fetches for one wallet
	PageDelay time.Duration

	// WalletDelay is the delay between wallets within one cycle
	WalletDelay time.Duration

	// PageTimeout is the per-page upstream request timeout
	PageTimeout time.Duration

	// Enabled determines if background ingestion runs
	Enabled bool
}

// DefaultConfig returns the default ingestion configuration
func DefaultConfig() *Config {
	return &Config{
		PollInterval: 30 * time.Minute,
		MaxPages:     10,
		PageDelay:    500 * time.Millisecond,
		WalletDelay:  time.Second,
		PageTimeout:  15 * time.Second,
		Enabled:      true,
	}
}

// Validate patches invalid values back to defaults
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		c.PollInterval = 30 * time.Minute
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 10
	}
	if c.PageTimeout <= 0 {
		c.PageTimeout = 15 * time.Second
	}
	return nil
}
