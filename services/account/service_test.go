package account

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"sankalp/database"
	"sankalp/models"
	"sankalp/repository"
	"sankalp/services/otp"
	"sankalp/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var otpInMail = regexp.MustCompile(`class="otp">(\d{6})<`)

type fixture struct {
	svc    *Service
	store  *otp.MemoryStore
	mailer *utils.ConsoleMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	store := otp.NewMemoryStore()
	mailer := utils.NewConsoleMailer()
	svc := NewService(db, otp.NewService(store, 10*time.Minute), utils.NewNotifier(mailer, "inbox@x.com"), bcrypt.MinCost)
	return &fixture{svc: svc, store: store, mailer: mailer}
}

func (f *fixture) lastCode(t *testing.T) string {
	t.Helper()
	msg, ok := f.mailer.Last()
	require.True(t, ok)
	m := otpInMail.FindStringSubmatch(msg.HTML)
	require.Len(t, m, 2)
	return m[1]
}

func (f *fixture) register(t *testing.T, kind models.AccountKind, email, password string) *models.Account {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.StartRegistration(ctx, SignUp{Kind: kind, Name: "Asha", Email: email, Phone: "999", Password: password}))
	acc, err := f.svc.VerifyRegistration(ctx, email, f.lastCode(t))
	require.NoError(t, err)
	return acc
}

func TestRegistrationFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acc := f.register(t, models.KindStudent, "Asha@X.com", "s3cret!")
	assert.Equal(t, "asha@x.com", acc.Email)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, acc.ReferralCode)
	assert.NotEqual(t, "s3cret!", acc.Password)
	assert.Equal(t, 0, f.store.Len())

	logged, err := f.svc.Login(ctx, models.KindStudent, "asha@x.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, logged.ID)

	err = f.svc.StartRegistration(ctx, SignUp{Kind: models.KindStudent, Email: "asha@x.com", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestEmployeeRegistrationUsesEmployeeTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, models.KindEmployee, "e@x.com", "pw")

	_, err := f.svc.Login(ctx, models.KindStudent, "e@x.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, models.KindEmployee, "e@x.com", "pw")
	assert.NoError(t, err)
}

func TestVerifyRegistrationWrongCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.StartRegistration(ctx, SignUp{Kind: models.KindStudent, Email: "a@x.com", Password: "pw"}))

	code := f.lastCode(t)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err := f.svc.VerifyRegistration(ctx, "a@x.com", wrong)
	assert.ErrorIs(t, err, otp.ErrInvalid)

	_, err = f.svc.VerifyRegistration(ctx, "a@x.com", code)
	assert.NoError(t, err)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, models.KindStudent, "a@x.com", "right")

	_, errUnknown := f.svc.Login(ctx, models.KindStudent, "nobody@x.com", "right")
	_, errWrong := f.svc.Login(ctx, models.KindStudent, "a@x.com", "wrong")
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
}

func TestUndeliveredOTPIsDropped(t *testing.T) {
	f := newFixture(t)
	f.mailer.Fail = errors.New("relay down")

	err := f.svc.StartRegistration(context.Background(), SignUp{Kind: models.KindStudent, Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrOTPDelivery)
	assert.Equal(t, 0, f.store.Len())
}

func TestPasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, models.KindStudent, "a@x.com", "old")

	assert.ErrorIs(t, f.svc.ForgotPassword(ctx, models.KindStudent, "nobody@x.com"), ErrAccountNotFound)

	require.NoError(t, f.svc.ForgotPassword(ctx, models.KindStudent, "a@x.com"))
	code := f.lastCode(t)

	require.NoError(t, f.svc.CheckResetCode(ctx, "a@x.com", code))
	require.NoError(t, f.svc.ResetPassword(ctx, models.KindStudent, "a@x.com", code, "new"))

	err := f.svc.ResetPassword(ctx, models.KindStudent, "a@x.com", code, "newer")
	assert.ErrorIs(t, err, otp.ErrNotFound)

	_, err = f.svc.Login(ctx, models.KindStudent, "a@x.com", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, models.KindStudent, "a@x.com", "new")
	assert.NoError(t, err)

	last, _ := f.mailer.Last()
	assert.Equal(t, "Password Reset Successful", last.Subject)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, models.KindStudent, "a@x.com", "pw")
	f.register(t, models.KindStudent, "b@x.com", "pw")

	_, err := f.svc.UpdateProfile(ctx, ProfileUpdate{Kind: models.KindStudent, OriginalEmail: "a@x.com", Name: "A", Email: "b@x.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = f.svc.UpdateProfile(ctx, ProfileUpdate{Kind: models.KindStudent, OriginalEmail: "ghost@x.com", Name: "G", Email: "ghost@x.com"})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	acc, err := f.svc.UpdateProfile(ctx, ProfileUpdate{Kind: models.KindStudent, OriginalEmail: "a@x.com", Name: "Asha K", Email: "c@x.com", Phone: "123"})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", acc.Name)
	assert.Equal(t, "123", acc.Phone)

	_, err = repository.NewStudentRepository(f.svc.db).FindByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}
