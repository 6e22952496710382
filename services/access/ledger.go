// Package access records which accounts may view which courses.
package access

import (
	"context"
	"errors"
	"time"

	"sankalp/models"
	"sankalp/models/course"

	"gorm.io/gorm"
)

var ErrNoGrant = errors.New("no access grant")

type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx returns a ledger bound to tx.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

// Grant records access for the account. Grants are immutable; a second
// grant for the same course returns gorm.ErrDuplicatedKey.
func (l *Ledger) Grant(ctx context.Context, kind models.AccountKind, accountID, courseID uint, at time.Time) (*course.AccessGrant, error) {
	grant := &course.AccessGrant{
		AccountKind: kind,
		AccountID:   accountID,
		CourseID:    courseID,
		GrantedAt:   at,
	}
	if err := l.db.WithContext(ctx).Create(grant).Error; err != nil {
		return nil, err
	}
	return grant, nil
}

// Lookup returns the grant for (account, course) or ErrNoGrant.
func (l *Ledger) Lookup(ctx context.Context, kind models.AccountKind, accountID, courseID uint) (*course.AccessGrant, error) {
	var grant course.AccessGrant
	err := l.db.WithContext(ctx).
		Where("account_kind = ? AND account_id = ? AND course_id = ?", kind, accountID, courseID).
		Take(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoGrant
	}
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

func (l *Ledger) HasAccess(ctx context.Context, kind models.AccountKind, accountID, courseID uint) (bool, error) {
	_, err := l.Lookup(ctx, kind, accountID, courseID)
	if errors.Is(err, ErrNoGrant) {
		return false, nil
	}
	return err == nil, err
}

// Grants lists the account's grants, oldest first.
func (l *Ledger) Grants(ctx context.Context, kind models.AccountKind, accountID uint) ([]course.AccessGrant, error) {
	var grants []course.AccessGrant
	err := l.db.WithContext(ctx).
		Where("account_kind = ? AND account_id = ?", kind, accountID).
		Order("granted_at asc").
		Find(&grants).Error
	return grants, err
}

// CourseIDs lists the ids of the courses the account may view.
func (l *Ledger) CourseIDs(ctx context.Context, kind models.AccountKind, accountID uint) ([]uint, error) {
	var ids []uint
	err := l.db.WithContext(ctx).Model(&course.AccessGrant{}).
		Where("account_kind = ? AND account_id = ?", kind, accountID).
		Pluck("course_id", &ids).Error
	return ids, err
}
