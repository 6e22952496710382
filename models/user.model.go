package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// AccountKind selects which credential table an account lives in.
type AccountKind string

const (
	KindStudent  AccountKind = "student"
	KindEmployee AccountKind = "employee"
)

// ParseAccountKind accepts the kind names used by the clients. An empty
// value means student, which is what the public site registers.
func ParseAccountKind(s string) (AccountKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "student", "0":
		return KindStudent, nil
	case "employee", "1":
		return KindEmployee, nil
	}
	return "", fmt.Errorf("unknown account kind %q", s)
}

func (k AccountKind) Valid() bool {
	return k == KindStudent || k == KindEmployee
}

// UnmarshalJSON accepts the kind as a name or as the 0/1 flag the mobile
// and admin clients send. null leaves the kind unset.
func (k *AccountKind) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*k = ""
			return nil
		}
	} else {
		s = string(raw)
	}
	parsed, err := ParseAccountKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// NormalizeEmail is the stored form of an email address. Every lookup by
// email goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// OrStudent returns k, or KindStudent when k is unset.
func (k AccountKind) OrStudent() AccountKind {
	if k == "" {
		return KindStudent
	}
	return k
}

// Account holds the fields shared by students and employees.
type Account struct {
	gorm.Model
	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Phone        string `json:"phone" gorm:"default:''"`
	Password     string `json:"-" gorm:"not null"`
	ReferralCode string `json:"referral_code" gorm:"uniqueIndex;size:8;not null"`
	Points       int    `json:"points" gorm:"default:0"`
}

// Summary is the account view returned to clients.
func (a Account) Summary() AccountSummary {
	return AccountSummary{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		ReferralCode: a.ReferralCode,
		Points:       a.Points,
	}
}

type AccountSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referal"`
	Points       int    `json:"points"`
}

type Student struct {
	Account
}

func (Student) TableName() string { return "students" }

type Employee struct {
	Account
}

func (Employee) TableName() string { return "employees" }
