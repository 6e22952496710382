// Package catalog serves courses, their modules and materials, and the
// per-account views built on the access ledger.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"sankalp/apperr"
	"sankalp/models"
	"sankalp/models/course"
	"sankalp/repository"
	"sankalp/services/access"
	"sankalp/services/unlock"

	"gorm.io/gorm"
)

var (
	ErrNoAccess      = apperr.New(apperr.Forbidden, "Access not granted for this course")
	ErrInvalidModule = apperr.New(apperr.Validation, "Invalid module data")
	ErrCourseMissing = apperr.New(apperr.NotFound, "Course not found")
)

type Service struct {
	db      *gorm.DB
	ledger  *access.Ledger
	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, ledger: access.NewLedger(db), now: time.Now, shuffle: rand.Shuffle}
}

// Ping checks database connectivity.
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Service) ListCourses(ctx context.Context) ([]course.Course, error) {
	var courses []course.Course
	err := s.db.WithContext(ctx).Order("id asc").Find(&courses).Error
	return courses, err
}

func (s *Service) Course(ctx context.Context, id uint) (*course.Course, error) {
	var c course.Course
	err := s.db.WithContext(ctx).Take(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseMissing
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Modules lists every module of a course by week, then day.
func (s *Service) Modules(ctx context.Context, courseID uint) ([]course.Module, error) {
	var modules []course.Module
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("week asc, day asc, id asc").
		Find(&modules).Error
	return modules, err
}

func (s *Service) Materials(ctx context.Context, courseID uint) ([]course.Material, error) {
	var materials []course.Material
	err := s.db.WithContext(ctx).Where("course_id = ?", courseID).Order("id asc").Find(&materials).Error
	return materials, err
}

type NewModule struct {
	Title     string
	Week      int
	Day       int
	VideoURL  string
	Materials []string
}

type NewCourse struct {
	Title       string
	Description string
	Thumbnail   string
	Syllabus    string
	Modules     []NewModule
}

// CreateCourse stores a course with its modules and materials. Any
// invalid module rolls the whole course back.
func (s *Service) CreateCourse(ctx context.Context, in NewCourse) (*course.Course, error) {
	c := &course.Course{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Thumbnail:   in.Thumbnail,
		Syllabus:    in.Syllabus,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		for _, nm := range in.Modules {
			if strings.TrimSpace(nm.Title) == "" || nm.Week < 1 || nm.Day < 1 || strings.TrimSpace(nm.VideoURL) == "" {
				return ErrInvalidModule
			}
			m := course.Module{
				CourseID: c.ID,
				Title:    strings.TrimSpace(nm.Title),
				Week:     nm.Week,
				Day:      nm.Day,
				VideoURL: strings.TrimSpace(nm.VideoURL),
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			for _, content := range nm.Materials {
				mat := course.Material{ModuleID: m.ID, CourseID: c.ID, Content: content}
				if err := tx.Create(&mat).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CheckAccess resolves an account by email and returns its grant for the
// course, or nil when the account or the grant does not exist.
func (s *Service) CheckAccess(ctx context.Context, kind models.AccountKind, email string, courseID uint) (*course.AccessGrant, error) {
	accounts, err := repository.Accounts(s.db, kind)
	if err != nil {
		return nil, err
	}
	acc, err := accounts.FindByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	grant, err := s.ledger.Lookup(ctx, kind, acc.ID, courseID)
	if errors.Is(err, access.ErrNoGrant) {
		return nil, nil
	}
	return grant, err
}

// UserCourses lists the courses the account has been approved for.
func (s *Service) UserCourses(ctx context.Context, kind models.AccountKind, accountID uint) ([]course.Course, error) {
	ids, err := s.ledger.CourseIDs(ctx, kind, accountID)
	if err != nil {
		return nil, err
	}
	courses := []course.Course{}
	if len(ids) == 0 {
		return courses, nil
	}
	err = s.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&courses).Error
	return courses, err
}

// UnlockedModule is a released module with its materials.
type UnlockedModule struct {
	course.Module
	Materials []course.Material `json:"materials"`
}

// UnlockedModules returns the modules of the course released to the
// account so far, by week then day.
func (s *Service) UnlockedModules(ctx context.Context, kind models.AccountKind, accountID, courseID uint) ([]UnlockedModule, error) {
	grant, err := s.ledger.Lookup(ctx, kind, accountID, courseID)
	if errors.Is(err, access.ErrNoGrant) {
		return nil, ErrNoAccess
	}
	if err != nil {
		return nil, err
	}

	all, err := s.Modules(ctx, courseID)
	if err != nil {
		return nil, err
	}
	visible := unlock.Visible(all, grant.GrantedAt, s.now())
	out := make([]UnlockedModule, 0, len(visible))
	if len(visible) == 0 {
		return out, nil
	}

	ids := make([]uint, len(visible))
	for i, m := range visible {
		ids[i] = m.ID
	}
	var materials []course.Material
	if err := s.db.WithContext(ctx).Where("module_id IN ?", ids).Order("id asc").Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	byModule := make(map[uint][]course.Material, len(visible))
	for _, mat := range materials {
		byModule[mat.ModuleID] = append(byModule[mat.ModuleID], mat)
	}
	for _, m := range visible {
		mats := byModule[m.ID]
		if mats == nil {
			mats = []course.Material{}
		}
		out = append(out, UnlockedModule{Module: m, Materials: mats})
	}
	return out, nil
}

// Recommend returns up to limit courses the account is not enrolled in,
// in random order. A limit of zero or less returns all of them.
func (s *Service) Recommend(ctx context.Context, kind models.AccountKind, accountID uint, limit int) ([]course.Course, error) {
	ids, err := s.ledger.CourseIDs(ctx, kind, accountID)
	if err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Model(&course.Course{})
	if len(ids) > 0 {
		q = q.Where("id NOT IN ?", ids)
	}
	courses := []course.Course{}
	if err := q.Find(&courses).Error; err != nil {
		return nil, err
	}
	s.shuffle(len(courses), func(i, j int) { courses[i], courses[j] = courses[j], courses[i] })
	if limit > 0 && len(courses) > limit {
		courses = courses[:limit]
	}
	return courses, nil
}
