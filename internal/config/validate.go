package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Reports.validate(); err != nil {
		return fmt.Errorf("reports: %w", err)
	}

	if c.Storage.SignedURLTTL <= 0 {
		return fmt.Errorf("storage.signed_url_ttl must be > 0 (got %v)", c.Storage.SignedURLTTL)
	}

	return nil
}

func (r *ReportsConfig) validate() error {
	if r.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", r.BatchSize)
	}
	if r.StuckThreshold <= 0 {
		return fmt.Errorf("stuck_threshold must be > 0 (got %v)", r.StuckThreshold)
	}
	if r.StuckSweepLimit <= 0 {
		return fmt.Errorf("stuck_sweep_limit must be > 0 (got %d)", r.StuckSweepLimit)
	}
	if r.SchedulerTimeout <= 0 {
		return fmt.Errorf("scheduler_timeout must be > 0 (got %v)", r.SchedulerTimeout)
	}
	if r.ReaperTimeout <= 0 {
		return fmt.Errorf("reaper_timeout must be > 0 (got %v)", r.ReaperTimeout)
	}
	return nil
}
