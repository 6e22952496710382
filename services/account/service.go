// Package account implements sign up, sign in, password reset and
// profile changes for students and employees.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sankalp/apperr"
	"sankalp/models"
	"sankalp/repository"
	"sankalp/services/otp"
	"sankalp/services/referral"
	"sankalp/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = apperr.New(apperr.Conflict, "Email already registered")
	ErrInvalidCredentials = apperr.New(apperr.Unauthorized, "Invalid email or password")
	ErrAccountNotFound    = apperr.New(apperr.NotFound, "No account found with this email")
	ErrOTPDelivery        = apperr.New(apperr.Internal, "Failed to send OTP")
	ErrMissingPayload     = apperr.New(apperr.Validation, "Registration details not found, please register again")
)

type Service struct {
	db        *gorm.DB
	otp       *otp.Service
	notifier  *utils.Notifier
	referrals *referral.Generator
	cost      int
}

func NewService(db *gorm.DB, otps *otp.Service, notifier *utils.Notifier, bcryptCost int) *Service {
	return &Service{
		db:        db,
		otp:       otps,
		notifier:  notifier,
		referrals: referral.NewGenerator(),
		cost:      bcryptCost,
	}
}

func (s *Service) accounts(kind models.AccountKind) (repository.AccountRepository, error) {
	return repository.Accounts(s.db, kind)
}

// SignUp is the details collected by the registration form.
type SignUp struct {
	Kind     models.AccountKind
	Name     string
	Email    string
	Phone    string
	Password string
}

// StartRegistration stages the account behind a registration OTP and
// mails the code. Nothing is written to the account table until the code
// is verified.
func (s *Service) StartRegistration(ctx context.Context, in SignUp) error {
	email := models.NormalizeEmail(in.Email)
	accounts, err := s.accounts(in.Kind)
	if err != nil {
		return err
	}
	taken, err := accounts.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	payload := &models.PendingAccount{
		Kind:         in.Kind,
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
	}

	code, err := s.otp.Issue(ctx, models.OTPRegistration, email, payload)
	if err != nil {
		return fmt.Errorf("issue registration otp: %w", err)
	}
	if err := s.notifier.SendRegistrationOTP(ctx, email, code); err != nil {
		utils.Log.Error("registration otp not delivered", zap.String("email", email), zap.Error(err))
		if derr := s.otp.Discard(ctx, models.OTPRegistration, email); derr != nil {
			utils.Log.Warn("discard undelivered otp", zap.String("email", email), zap.Error(derr))
		}
		return ErrOTPDelivery
	}
	return nil
}

// VerifyRegistration consumes the registration OTP and creates the staged
// account with a fresh referral code.
func (s *Service) VerifyRegistration(ctx context.Context, email, code string) (*models.Account, error) {
	email = models.NormalizeEmail(email)
	entry, err := s.otp.Consume(ctx, models.OTPRegistration, email, code)
	if err != nil {
		return nil, err
	}
	p := entry.Payload
	if p == nil {
		return nil, ErrMissingPayload
	}

	accounts, err := s.accounts(p.Kind)
	if err != nil {
		return nil, err
	}
	taken, err := accounts.EmailExists(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	refCode, err := s.referrals.Generate(ctx, accounts.ReferralCodeExists)
	if err != nil {
		return nil, err
	}

	acc := &models.Account{
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		Password:     p.PasswordHash,
		ReferralCode: refCode,
	}
	if err := accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return acc, nil
}

// Login checks credentials. Unknown email and wrong password fail alike.
func (s *Service) Login(ctx context.Context, kind models.AccountKind, email, password string) (*models.Account, error) {
	accounts, err := s.accounts(kind)
	if err != nil {
		return nil, err
	}
	acc, err := accounts.FindByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return acc, nil
}

// ForgotPassword mails a reset code to an existing account.
func (s *Service) ForgotPassword(ctx context.Context, kind models.AccountKind, email string) error {
	email = models.NormalizeEmail(email)
	accounts, err := s.accounts(kind)
	if err != nil {
		return err
	}
	exists, err := accounts.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if !exists {
		return ErrAccountNotFound
	}

	code, err := s.otp.Issue(ctx, models.OTPPasswordReset, email, &models.PendingAccount{Kind: kind, Email: email})
	if err != nil {
		return fmt.Errorf("issue reset otp: %w", err)
	}
	if err := s.notifier.SendPasswordResetOTP(ctx, email, code); err != nil {
		utils.Log.Error("reset otp not delivered", zap.String("email", email), zap.Error(err))
		if derr := s.otp.Discard(ctx, models.OTPPasswordReset, email); derr != nil {
			utils.Log.Warn("discard undelivered otp", zap.String("email", email), zap.Error(derr))
		}
		return ErrOTPDelivery
	}
	return nil
}

// CheckResetCode validates a reset code without using it up.
func (s *Service) CheckResetCode(ctx context.Context, email, code string) error {
	_, err := s.otp.Check(ctx, models.OTPPasswordReset, models.NormalizeEmail(email), code)
	return err
}

// ResetPassword consumes the reset code and replaces the password.
func (s *Service) ResetPassword(ctx context.Context, kind models.AccountKind, email, code, newPassword string) error {
	email = models.NormalizeEmail(email)
	entry, err := s.otp.Consume(ctx, models.OTPPasswordReset, email, code)
	if err != nil {
		return err
	}
	if entry.Payload != nil && entry.Payload.Kind.Valid() {
		kind = entry.Payload.Kind
	}

	accounts, err := s.accounts(kind)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	n, err := accounts.UpdatePassword(ctx, email, string(hash))
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n == 0 {
		return ErrAccountNotFound
	}

	if err := s.notifier.SendPasswordResetSuccess(ctx, email); err != nil {
		utils.Log.Warn("reset confirmation not delivered", zap.String("email", email), zap.Error(err))
	}
	return nil
}

type ProfileUpdate struct {
	Kind          models.AccountKind
	OriginalEmail string
	Name          string
	Email         string
	Phone         string
}

// UpdateProfile changes name, email and phone. A new email must not
// belong to another account of the same kind.
func (s *Service) UpdateProfile(ctx context.Context, in ProfileUpdate) (*models.Account, error) {
	accounts, err := s.accounts(in.Kind)
	if err != nil {
		return nil, err
	}
	original := models.NormalizeEmail(in.OriginalEmail)
	email := models.NormalizeEmail(in.Email)

	if email != original {
		taken, err := accounts.EmailExists(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	n, err := accounts.UpdateProfile(ctx, original, strings.TrimSpace(in.Name), email, strings.TrimSpace(in.Phone))
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if n == 0 {
		return nil, ErrAccountNotFound
	}
	return accounts.FindByEmail(ctx, email)
}

// Contact forwards a contact form message to the support inbox.
func (s *Service) Contact(ctx context.Context, name, email, phone, message string) error {
	if err := s.notifier.SendContactMessage(ctx, name, email, phone, message); err != nil {
		return fmt.Errorf("send contact message: %w", err)
	}
	return nil
}
