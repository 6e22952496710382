package course

import (
	"time"

	"sankalp/models"
)

// AccessGrant records that an account may view a course. GrantedAt is the
// clock basis for weekly content release.
type AccessGrant struct {
	ID          uint               `json:"id" gorm:"primarykey"`
	AccountKind models.AccountKind `json:"account_kind" gorm:"size:16;not null;uniqueIndex:idx_access_account_course"`
	AccountID   uint               `json:"account_id" gorm:"not null;uniqueIndex:idx_access_account_course"`
	CourseID    uint               `json:"course_id" gorm:"not null;uniqueIndex:idx_access_account_course;index"`
	GrantedAt   time.Time          `json:"accessGranted" gorm:"not null"`
}
