// Package otp issues and checks six digit one-time codes bound to an
// email address.
package otp

import (
	"context"
	"strings"
	"time"

	"sankalp/apperr"
	"sankalp/models"
	"sankalp/utils"
)

var (
	ErrNotFound = apperr.New(apperr.Validation, "No OTP found for this email")
	ErrExpired  = apperr.New(apperr.Validation, "OTP has expired")
	ErrInvalid  = apperr.New(apperr.Validation, "Invalid OTP")
)

// Service issues codes into a Store. Only the latest code for a
// (purpose, email) pair is valid.
type Service struct {
	store    Store
	ttl      time.Duration
	now      func() time.Time
	generate func() (string, error)
}

func NewService(store Store, ttl time.Duration) *Service {
	return &Service{store: store, ttl: ttl, now: time.Now, generate: utils.GenerateOTP}
}

func key(purpose models.OTPPurpose, email string) string {
	return string(purpose) + ":" + strings.ToLower(strings.TrimSpace(email))
}

// Issue creates a code for email, replacing any previous one.
func (s *Service) Issue(ctx context.Context, purpose models.OTPPurpose, email string, payload *models.PendingAccount) (string, error) {
	code, err := s.generate()
	if err != nil {
		return "", err
	}
	entry := models.OTPEntry{
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
		Payload:   payload,
	}
	if err := s.store.Put(ctx, key(purpose, email), entry); err != nil {
		return "", err
	}
	utils.OTPIssued.WithLabelValues(string(purpose)).Inc()
	return code, nil
}

// Check validates code without consuming it.
func (s *Service) Check(ctx context.Context, purpose models.OTPPurpose, email, code string) (models.OTPEntry, error) {
	k := key(purpose, email)
	entry, ok, err := s.store.Get(ctx, k)
	if err != nil {
		return models.OTPEntry{}, err
	}
	if !ok {
		s.observe(purpose, "missing")
		return models.OTPEntry{}, ErrNotFound
	}
	if entry.Expired(s.now()) {
		if err := s.store.Delete(ctx, k); err != nil {
			return models.OTPEntry{}, err
		}
		s.observe(purpose, "expired")
		return models.OTPEntry{}, ErrExpired
	}
	if entry.Code != strings.TrimSpace(code) {
		s.observe(purpose, "invalid")
		return models.OTPEntry{}, ErrInvalid
	}
	s.observe(purpose, "ok")
	return entry, nil
}

// Consume validates code and deletes the entry on success, so a code
// works exactly once even under concurrent verifies.
func (s *Service) Consume(ctx context.Context, purpose models.OTPPurpose, email, code string) (models.OTPEntry, error) {
	checked, err := s.Check(ctx, purpose, email, code)
	if err != nil {
		return models.OTPEntry{}, err
	}
	now := s.now()
	entry, ok, err := s.store.Take(ctx, key(purpose, email), func(e models.OTPEntry) bool {
		return e.Code == checked.Code && !e.Expired(now)
	})
	if err != nil {
		return models.OTPEntry{}, err
	}
	if !ok {
		// Taken or replaced since the check.
		return models.OTPEntry{}, ErrNotFound
	}
	return entry, nil
}

// Discard drops any outstanding code for email.
func (s *Service) Discard(ctx context.Context, purpose models.OTPPurpose, email string) error {
	return s.store.Delete(ctx, key(purpose, email))
}

func (s *Service) observe(purpose models.OTPPurpose, result string) {
	utils.OTPVerifications.WithLabelValues(string(purpose), result).Inc()
}
