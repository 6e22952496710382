package models

import (
	"time"

	"gorm.io/gorm"
)

// PendingOpenSlot marks an unresolved registration. It takes part in the
// unique index so only one unresolved row can exist per email, course and
// account kind; approval clears it to NULL.
const PendingOpenSlot = "open"

const (
	PendingUnapproved = 0
	PendingApproved   = 1
)

// PendingRegistration is a course enrollment claimed by a payment
// transaction and waiting for the maintenance fee and admin approval.
type PendingRegistration struct {
	gorm.Model
	Name                     string      `json:"name"`
	Email                    string      `json:"email" gorm:"size:191;not null;uniqueIndex:idx_pending_open"`
	CourseName               string      `json:"courseName"`
	CourseID                 uint        `json:"courseId" gorm:"not null;uniqueIndex:idx_pending_open"`
	TransactionID            string      `json:"transactionid"`
	ReferralID               string      `json:"referalid" gorm:"size:8"`
	Amount                   float64     `json:"amount"`
	Status                   int         `json:"status" gorm:"default:0"`
	MaintenanceFeePaid       bool        `json:"maintenance_fee" gorm:"default:false"`
	MaintenanceTransactionID string      `json:"maintenance_transaction"`
	AccountKind              AccountKind `json:"account_kind" gorm:"size:16;not null;uniqueIndex:idx_pending_open"`
	OpenSlot                 *string     `json:"-" gorm:"size:8;uniqueIndex:idx_pending_open"`
	ApprovedAt               *time.Time  `json:"approved_at"`
}
