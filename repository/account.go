// Package repository provides the credential stores for the two account
// kinds. Callers pick an implementation by AccountKind; table names are
// fixed per implementation and never derived from request input.
package repository

import (
	"context"
	"errors"
	"fmt"

	"sankalp/models"

	"gorm.io/gorm"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountRepository is the credential store of one account kind.
type AccountRepository interface {
	Kind() models.AccountKind
	// WithTx returns a repository bound to tx.
	WithTx(tx *gorm.DB) AccountRepository

	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, account *models.Account) error
	UpdateProfile(ctx context.Context, originalEmail, name, email, phone string) (int64, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) (int64, error)
	// AddPoints credits every account holding referralCode and returns the
	// number of accounts credited.
	AddPoints(ctx context.Context, referralCode string, points int) (int64, error)
}

// Accounts returns the repository for kind.
func Accounts(db *gorm.DB, kind models.AccountKind) (AccountRepository, error) {
	switch kind {
	case models.KindStudent:
		return NewStudentRepository(db), nil
	case models.KindEmployee:
		return NewEmployeeRepository(db), nil
	}
	return nil, fmt.Errorf("no account repository for kind %q", kind)
}

// StudentRepository stores student accounts.
type StudentRepository struct {
	accountTable
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{accountTable{db: db, table: models.Student{}.TableName()}}
}

func (r *StudentRepository) Kind() models.AccountKind { return models.KindStudent }

func (r *StudentRepository) WithTx(tx *gorm.DB) AccountRepository {
	return NewStudentRepository(tx)
}

func (r *StudentRepository) Create(ctx context.Context, account *models.Account) error {
	rec := models.Student{Account: *account}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	*account = rec.Account
	return nil
}

// EmployeeRepository stores employee accounts.
type EmployeeRepository struct {
	accountTable
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{accountTable{db: db, table: models.Employee{}.TableName()}}
}

func (r *EmployeeRepository) Kind() models.AccountKind { return models.KindEmployee }

func (r *EmployeeRepository) WithTx(tx *gorm.DB) AccountRepository {
	return NewEmployeeRepository(tx)
}

func (r *EmployeeRepository) Create(ctx context.Context, account *models.Account) error {
	rec := models.Employee{Account: *account}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	*account = rec.Account
	return nil
}

// accountTable implements the queries shared by both kinds against a
// fixed table.
type accountTable struct {
	db    *gorm.DB
	table string
}

func (t accountTable) scope(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Table(t.table).Where("deleted_at IS NULL")
}

func (t accountTable) first(ctx context.Context, query string, args ...interface{}) (*models.Account, error) {
	var acc models.Account
	err := t.scope(ctx).Where(query, args...).Take(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (t accountTable) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return t.first(ctx, "email = ?", email)
}

func (t accountTable) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	return t.first(ctx, "id = ?", id)
}

func (t accountTable) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := t.scope(ctx).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (t accountTable) EmailExists(ctx context.Context, email string) (bool, error) {
	return t.exists(ctx, "email = ?", email)
}

func (t accountTable) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	return t.exists(ctx, "referral_code = ?", code)
}

func (t accountTable) UpdateProfile(ctx context.Context, originalEmail, name, email, phone string) (int64, error) {
	res := t.scope(ctx).Where("email = ?", originalEmail).Updates(map[string]interface{}{
		"name":  name,
		"email": email,
		"phone": phone,
	})
	return res.RowsAffected, res.Error
}

func (t accountTable) UpdatePassword(ctx context.Context, email, passwordHash string) (int64, error) {
	res := t.scope(ctx).Where("email = ?", email).Update("password", passwordHash)
	return res.RowsAffected, res.Error
}

func (t accountTable) AddPoints(ctx context.Context, referralCode string, points int) (int64, error) {
	if referralCode == "" {
		return 0, nil
	}
	res := t.scope(ctx).Where("referral_code = ?", referralCode).
		Update("points", gorm.Expr("points + ?", points))
	return res.RowsAffected, res.Error
}
