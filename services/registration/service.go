// Package registration runs the course enrollment state machine: a
// submitted payment claim waits for the maintenance fee, then for an admin
// to approve it, which grants course access and rewards the referrer.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sankalp/apperr"
	"sankalp/models"
	"sankalp/repository"
	"sankalp/services/access"
	"sankalp/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDuplicateRegistration = apperr.New(apperr.Conflict, "A registration for this course is already pending")
	ErrAlreadyEnrolled       = apperr.New(apperr.Conflict, "You are already enrolled in this course")
	ErrNoPendingRegistration = apperr.New(apperr.NotFound, "No pending registration found")
	ErrAccountNotFound       = apperr.New(apperr.NotFound, "No account found for this registration")
)

// Status is the externally visible state of a registration.
type Status string

const (
	NotRegistered              Status = "not_registered"
	AwaitingMaintenancePayment Status = "awaiting_maintenance_payment"
	PendingReview              Status = "pending_review"
	Approved                   Status = "approved"
)

// StatusOf maps a stored row to its state.
func StatusOf(p *models.PendingRegistration) Status {
	switch {
	case p == nil:
		return NotRegistered
	case p.Status == models.PendingApproved:
		return Approved
	case p.MaintenanceFeePaid:
		return PendingReview
	default:
		return AwaitingMaintenancePayment
	}
}

type Submission struct {
	Name          string
	Email         string
	TransactionID string
	ReferralID    string
	CourseID      uint
	CourseName    string
	Amount        float64
	Kind          models.AccountKind
}

type MaintenancePayment struct {
	Email         string
	CourseName    string
	TransactionID string
	Kind          models.AccountKind
}

// Approval is the outcome of a successful admin approval.
type Approval struct {
	Registration     models.PendingRegistration
	AccountID        uint
	ReferrerCredited bool
}

type Service struct {
	db       *gorm.DB
	ledger   *access.Ledger
	notifier *utils.Notifier
	reward   int
	now      func() time.Time
}

func NewService(db *gorm.DB, notifier *utils.Notifier, referralReward int) *Service {
	return &Service{
		db:       db,
		ledger:   access.NewLedger(db),
		notifier: notifier,
		reward:   referralReward,
		now:      time.Now,
	}
}

// Submit records a payment claim. Only one unresolved claim may exist per
// email, course and account kind; the unique index on open_slot enforces
// it for concurrent submissions too.
func (s *Service) Submit(ctx context.Context, sub Submission) (*models.PendingRegistration, error) {
	email := models.NormalizeEmail(sub.Email)

	var open int64
	err := s.db.WithContext(ctx).Model(&models.PendingRegistration{}).
		Where("email = ? AND course_id = ? AND account_kind = ? AND open_slot = ?",
			email, sub.CourseID, sub.Kind, models.PendingOpenSlot).
		Count(&open).Error
	if err != nil {
		return nil, fmt.Errorf("count pending registrations: %w", err)
	}
	if open > 0 {
		return nil, ErrDuplicateRegistration
	}

	enrolled, err := s.enrolled(ctx, sub.Kind, email, sub.CourseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	slot := models.PendingOpenSlot
	row := &models.PendingRegistration{
		Name:          strings.TrimSpace(sub.Name),
		Email:         email,
		CourseName:    sub.CourseName,
		CourseID:      sub.CourseID,
		TransactionID: sub.TransactionID,
		ReferralID:    strings.ToUpper(strings.TrimSpace(sub.ReferralID)),
		Amount:        sub.Amount,
		Status:        models.PendingUnapproved,
		AccountKind:   sub.Kind,
		OpenSlot:      &slot,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("create pending registration: %w", err)
	}

	utils.RegistrationsSubmitted.WithLabelValues(string(sub.Kind)).Inc()
	return row, nil
}

func (s *Service) enrolled(ctx context.Context, kind models.AccountKind, email string, courseID uint) (bool, error) {
	accounts, err := repository.Accounts(s.db, kind)
	if err != nil {
		return false, err
	}
	acc, err := accounts.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.ledger.HasAccess(ctx, kind, acc.ID, courseID)
}

// ConfirmMaintenance marks the unresolved claim for the course as having
// paid the maintenance fee.
func (s *Service) ConfirmMaintenance(ctx context.Context, pay MaintenancePayment) error {
	res := s.db.WithContext(ctx).Model(&models.PendingRegistration{}).
		Where("email = ? AND course_name = ? AND account_kind = ? AND status = ?",
			models.NormalizeEmail(pay.Email), pay.CourseName, pay.Kind, models.PendingUnapproved).
		Updates(map[string]interface{}{
			"maintenance_fee_paid":       true,
			"maintenance_transaction_id": pay.TransactionID,
		})
	if res.Error != nil {
		return fmt.Errorf("confirm maintenance payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoPendingRegistration
	}
	return nil
}

// Status reports the state of the latest claim for the course.
func (s *Service) Status(ctx context.Context, email string, courseID uint, kind models.AccountKind) (Status, error) {
	var row models.PendingRegistration
	err := s.db.WithContext(ctx).
		Where("email = ? AND course_id = ? AND account_kind = ?", models.NormalizeEmail(email), courseID, kind).
		Order("id desc").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotRegistered, nil
	}
	if err != nil {
		return "", fmt.Errorf("load pending registration: %w", err)
	}
	return StatusOf(&row), nil
}

// AwaitingApproval lists claims with the maintenance fee paid that no
// admin has approved yet, oldest first.
func (s *Service) AwaitingApproval(ctx context.Context) ([]models.PendingRegistration, error) {
	var rows []models.PendingRegistration
	err := s.db.WithContext(ctx).
		Where("maintenance_fee_paid = ? AND status = ?", true, models.PendingUnapproved).
		Order("created_at asc").
		Find(&rows).Error
	return rows, err
}

// Approve resolves a reviewed claim in a single transaction: the claim is
// marked approved, access is granted from now, and the account holding
// the claim's referral code is credited. The approval email is sent after
// commit and a delivery failure does not undo the approval.
//
// The account table comes from the stored claim. A non-empty kind only
// narrows the claim lookup.
func (s *Service) Approve(ctx context.Context, email string, courseID uint, kind models.AccountKind) (*Approval, error) {
	var out Approval
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("email = ? AND course_id = ? AND status = ? AND maintenance_fee_paid = ?",
			models.NormalizeEmail(email), courseID, models.PendingUnapproved, true)
		if kind != "" {
			q = q.Where("account_kind = ?", kind)
		}
		var row models.PendingRegistration
		if err := q.Order("id asc").Take(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoPendingRegistration
			}
			return err
		}

		now := s.now()
		res := tx.Model(&models.PendingRegistration{}).
			Where("id = ? AND status = ?", row.ID, models.PendingUnapproved).
			Updates(map[string]interface{}{
				"status":      models.PendingApproved,
				"open_slot":   nil,
				"approved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrNoPendingRegistration
		}
		row.Status = models.PendingApproved
		row.OpenSlot = nil
		row.ApprovedAt = &now

		accounts, err := repository.Accounts(tx, row.AccountKind)
		if err != nil {
			return err
		}
		acc, err := accounts.FindByEmail(ctx, row.Email)
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}

		if _, err := s.ledger.WithTx(tx).Grant(ctx, row.AccountKind, acc.ID, row.CourseID, now); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyEnrolled
			}
			return err
		}

		if row.ReferralID != "" {
			credited, err := accounts.AddPoints(ctx, row.ReferralID, s.reward)
			if err != nil {
				return err
			}
			out.ReferrerCredited = credited > 0
		}

		out.Registration = row
		out.AccountID = acc.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.RegistrationsApproved.WithLabelValues(string(out.Registration.AccountKind)).Inc()
	if out.ReferrerCredited {
		utils.ReferralRewards.Inc()
	}

	if s.notifier != nil {
		reg := out.Registration
		if err := s.notifier.SendRegistrationApproved(ctx, reg.Email, reg.Name, reg.CourseName); err != nil {
			utils.Log.Warn("approval email not delivered",
				zap.String("email", reg.Email),
				zap.Uint("course_id", reg.CourseID),
				zap.Error(err))
		}
	}
	return &out, nil
}
