package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("OTP_TTL", "")
	t.Setenv("VIDEO_TOKEN_TTL", "")
	t.Setenv("REFERRAL_REWARD", "")

	cfg := FromEnv()

	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, time.Minute, cfg.VideoTokenTTL)
	assert.Equal(t, 10, cfg.ReferralReward)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("VIDEO_TOKEN_TTL", "not-a-duration")
	t.Setenv("SALT_ROUND", "12")
	t.Setenv("LOG_DEV", "true")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")

	cfg := FromEnv()

	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, time.Minute, cfg.VideoTokenTTL)
	assert.Equal(t, 12, cfg.SaltRound)
	assert.True(t, cfg.LogDev)
	assert.Equal(t, "sendgrid", cfg.EmailProvider)
}
