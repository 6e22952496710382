package utils

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper drops expired entries from a store and reports how many it
// removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// OTPSweepSchedule runs the sweep every minute.
const OTPSweepSchedule = "@every 1m"

// InitializeOTPSweeper starts a cron job that purges expired one-time
// codes on schedule. Reads already ignore expired codes; the sweep only
// bounds memory held by abandoned requests.
func InitializeOTPSweeper(sweeper Sweeper, schedule string) (*cron.Cron, error) {
	Log.Info("[OTP-SWEEPER] Initializing OTP sweeper...", zap.String("schedule", schedule))

	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		removed, err := sweeper.Sweep(context.Background())
		if err != nil {
			Log.Warn("[OTP-SWEEPER] sweep failed", zap.Error(err))
			return
		}
		if removed > 0 {
			Log.Debug("[OTP-SWEEPER] expired codes removed", zap.Int("count", removed))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule OTP sweep %q: %w", schedule, err)
	}

	c.Start()
	Log.Info("[OTP-SWEEPER] OTP sweeper started")
	return c, nil
}
