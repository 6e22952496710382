// Package certificate issues course completion certificates through an
// external renderer and verifies issued ones.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sankalp/apperr"
	"sankalp/models/course"
	"sankalp/utils"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DateLayout = "2006-01-02"
	// NotFound is the verification value for anything but exactly one match.
	NotFound = -1
)

var (
	ErrInvalidDate = apperr.New(apperr.Validation, "issueDate must be in YYYY-MM-DD format")
	ErrRenderer    = apperr.New(apperr.Upstream, "Certificate generation failed")
)

type Service struct {
	db       *gorm.DB
	renderer *Renderer
	now      func() time.Time
}

func NewService(db *gorm.DB, renderer *Renderer) *Service {
	return &Service{db: db, renderer: renderer, now: time.Now}
}

// issueDay is the calendar day of t, anchored at UTC midnight so stored
// and queried dates compare equal whatever the server zone.
func issueDay(t time.Time) datatypes.Date {
	y, m, d := now.With(t).BeginningOfDay().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Verify returns the status of the certificate matching all three fields
// when exactly one exists, and NotFound otherwise.
func (s *Service) Verify(ctx context.Context, holderName, domain, issueDate string) (int, error) {
	day, err := time.Parse(DateLayout, strings.TrimSpace(issueDate))
	if err != nil {
		return NotFound, ErrInvalidDate
	}
	var matches []course.Certificate
	err = s.db.WithContext(ctx).
		Where("holder_name = ? AND domain = ? AND issue_date = ?", holderName, domain, issueDay(day)).
		Limit(2).
		Find(&matches).Error
	if err != nil {
		return NotFound, fmt.Errorf("lookup certificate: %w", err)
	}
	if len(matches) != 1 {
		return NotFound, nil
	}
	return matches[0].Status, nil
}

// Issued is a rendered certificate ready to download.
type Issued struct {
	PDF      []byte
	FileName string
	Record   *course.Certificate
}

// Generate renders a certificate and records it as issued today. The PDF
// is returned even when the record cannot be stored.
func (s *Service) Generate(ctx context.Context, req Request) (*Issued, error) {
	if req.Gender == "" {
		req.Gender = "other"
	}
	pdf, err := s.renderer.Render(ctx, req)
	if err != nil {
		utils.CertificatesGenerated.WithLabelValues("failed").Inc()
		var re *RenderError
		if errors.As(err, &re) {
			return nil, re
		}
		utils.Log.Error("certificate renderer unreachable", zap.Error(err))
		return nil, ErrRenderer
	}
	utils.CertificatesGenerated.WithLabelValues("ok").Inc()

	out := &Issued{
		PDF:      pdf,
		FileName: utils.SafeFileName(req.Name) + "_Certificate.pdf",
	}
	record := &course.Certificate{
		HolderName:        req.Name,
		Domain:            req.Domain,
		Status:            course.CertificateIssued,
		IssueDate:         issueDay(s.now()),
		CertificateNumber: uuid.NewString(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		utils.Log.Error("certificate record not stored",
			zap.String("name", req.Name),
			zap.String("domain", req.Domain),
			zap.Error(err))
	} else {
		out.Record = record
	}
	return out, nil
}
