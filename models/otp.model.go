package models

import "time"

// OTPPurpose namespaces one-time codes so a registration code can never
// be used to reset a password and vice versa.
type OTPPurpose string

const (
	OTPRegistration  OTPPurpose = "registration"
	OTPPasswordReset OTPPurpose = "password-reset"
)

// OTPEntry is a single outstanding code for an email address.
type OTPEntry struct {
	Code      string          `json:"code"`
	ExpiresAt time.Time       `json:"expires_at"`
	Payload   *PendingAccount `json:"payload,omitempty"`
}

func (e OTPEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// PendingAccount is the registration form staged until its OTP is
// confirmed. Password is already hashed.
type PendingAccount struct {
	Kind         AccountKind `json:"kind"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	PasswordHash string      `json:"password_hash"`
}
