package videotoken

import (
	"context"
	"errors"
	"fmt"

	"sankalp/apperr"
	"sankalp/models"
	"sankalp/models/course"
	"sankalp/repository"
	"sankalp/services/access"
	"sankalp/utils"

	"gorm.io/gorm"
)

var (
	ErrAccessDenied    = apperr.New(apperr.Forbidden, "Access denied: No course access")
	ErrUserNotFound    = apperr.New(apperr.Forbidden, "Access denied: User not found")
	ErrModuleNotFound  = apperr.New(apperr.NotFound, "Module not found")
	ErrVideoNotFound   = apperr.New(apperr.NotFound, "Video not found")
	ErrInvalidVideoURL = apperr.New(apperr.Validation, "Invalid YouTube URL")
)

// Service issues tokens after checking course access and serves the
// player page for a valid token.
//
// Serving does not consult the access ledger again: a token is trusted
// for its lifetime (one minute by default) on the strength of the check
// made when it was issued.
type Service struct {
	db     *gorm.DB
	ledger *access.Ledger
	issuer *Issuer
}

func NewService(db *gorm.DB, issuer *Issuer) *Service {
	return &Service{db: db, ledger: access.NewLedger(db), issuer: issuer}
}

// IssueForEmail is the web flow: the viewer is identified by email within
// an account kind.
func (s *Service) IssueForEmail(ctx context.Context, kind models.AccountKind, email string, moduleID uint) (string, error) {
	accounts, err := repository.Accounts(s.db, kind)
	if err != nil {
		return "", err
	}
	acc, err := accounts.FindByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, repository.ErrAccountNotFound) {
		s.observe("issue", "no_account")
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	if err := s.authorize(ctx, kind, acc.ID, moduleID); err != nil {
		return "", err
	}
	return s.sign(Claims{Email: acc.Email, Kind: kind, ModuleID: moduleID})
}

// IssueForUserID is the mobile flow: the viewer is a student id.
func (s *Service) IssueForUserID(ctx context.Context, userID, moduleID uint) (string, error) {
	if err := s.authorize(ctx, models.KindStudent, userID, moduleID); err != nil {
		return "", err
	}
	return s.sign(Claims{UserID: userID, Kind: models.KindStudent, ModuleID: moduleID})
}

func (s *Service) authorize(ctx context.Context, kind models.AccountKind, accountID, moduleID uint) error {
	m, err := s.module(ctx, moduleID)
	if err != nil {
		s.observe("issue", "no_module")
		return err
	}
	ok, err := s.ledger.HasAccess(ctx, kind, accountID, m.CourseID)
	if err != nil {
		return err
	}
	if !ok {
		s.observe("issue", "denied")
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) sign(claims Claims) (string, error) {
	token, err := s.issuer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign video token: %w", err)
	}
	s.observe("issue", "ok")
	return token, nil
}

// Page verifies token for moduleID and renders the player for the
// module's video.
func (s *Service) Page(ctx context.Context, moduleID uint, token string) ([]byte, error) {
	claims, err := s.issuer.Verify(token, moduleID)
	if err != nil {
		s.observe("verify", "rejected")
		return nil, err
	}
	m, err := s.module(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if m.VideoURL == "" {
		return nil, ErrVideoNotFound
	}
	videoID := utils.ExtractYouTubeID(m.VideoURL)
	if videoID == "" {
		return nil, ErrInvalidVideoURL
	}
	s.observe("verify", "ok")
	return renderPage(videoID, claims.Viewer())
}

func (s *Service) module(ctx context.Context, id uint) (*course.Module, error) {
	var m course.Module
	err := s.db.WithContext(ctx).Take(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) observe(op, result string) {
	utils.VideoTokens.WithLabelValues(op, result).Inc()
}
