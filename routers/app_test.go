package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"sankalp/config"
	"sankalp/database"
	"sankalp/services/otp"
	"sankalp/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

var otpPattern = regexp.MustCompile(`class="otp">(\d{6})<`)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testEnv struct {
	app    *fiber.App
	mailer *utils.ConsoleMailer
}

func newTestEnv(t *testing.T, mutate func(cfg *config.Config)) *testEnv {
	t.Helper()

	cfg := config.FromEnv()
	cfg.JWTKey = "test-secret"
	cfg.SaltRound = 4
	cfg.AdminEmail = "admin@sankalp.com"
	cfg.AdminPassword = "admin-pass"
	cfg.RateLimitPerMin = 0
	if mutate != nil {
		mutate(cfg)
	}
	config.AppConfig = cfg

	db, err := database.OpenInMemory()
	require.NoError(t, err)

	mailer := utils.NewConsoleMailer()
	app := NewApp(cfg, NewServices(cfg, db, otp.NewMemoryStore(), mailer))
	return &testEnv{app: app, mailer: mailer}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func (e *testEnv) call(t *testing.T, method, path string, body interface{}, token string) (int, envelope) {
	t.Helper()
	status, raw := e.do(t, method, path, body, token)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return status, env
}

func (e *testEnv) lastOTP(t *testing.T) string {
	t.Helper()
	msg, ok := e.mailer.Last()
	require.True(t, ok)
	m := otpPattern.FindStringSubmatch(msg.HTML)
	require.Len(t, m, 2)
	return m[1]
}

func decode(t *testing.T, raw json.RawMessage, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, out), string(raw))
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	status, env := e.call(t, http.MethodPost, "/api/admin/login", fiber.Map{
		"email": "admin@sankalp.com", "password": "admin-pass",
	}, "")
	require.Equal(t, fiber.StatusOK, status)
	var data struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &data)
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (e *testEnv) createCourse(t *testing.T, admin string) uint {
	t.Helper()
	status, env := e.call(t, http.MethodPost, "/api/courses", fiber.Map{
		"title":       "Go Fundamentals",
		"description": "Eight weeks of Go",
		"modules": []fiber.Map{
			{"title": "Intro", "week": 1, "day": 1, "videoUrl": testVideoURL, "materials": []string{"notes.pdf"}},
			{"title": "Types", "week": 2, "day": 1, "videoUrl": testVideoURL},
		},
	}, admin)
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var data struct {
		CourseID uint `json:"courseId"`
	}
	decode(t, env.Data, &data)
	return data.CourseID
}

func (e *testEnv) signUp(t *testing.T, email string) uint {
	t.Helper()
	status, env := e.call(t, http.MethodPost, "/api/register", fiber.Map{
		"name": "Asha", "email": email, "phone": "9999999999", "password": "secret123",
	}, "")
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = e.call(t, http.MethodPost, "/api/verify-registration", fiber.Map{
		"email": email, "otp": e.lastOTP(t),
	}, "")
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var acc struct {
		ID      uint   `json:"id"`
		Referal string `json:"referal"`
	}
	decode(t, env.Data, &acc)
	assert.Len(t, acc.Referal, 8)
	return acc.ID
}

func registrationStatus(t *testing.T, env envelope) string {
	t.Helper()
	var data struct {
		Status string `json:"registrationStatus"`
	}
	decode(t, env.Data, &data)
	return data.Status
}

func TestEnrollmentFlow(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.adminToken(t)
	courseID := e.createCourse(t, admin)
	userID := e.signUp(t, "asha@x.com")

	status, env := e.call(t, http.MethodPost, "/api/login", fiber.Map{
		"email": "asha@x.com", "password": "secret123",
	}, "")
	require.Equal(t, fiber.StatusOK, status)

	pending := fiber.Map{
		"pendingRegistrationData": fiber.Map{
			"name": "Asha", "email": "asha@x.com", "transid": "TX1",
			"courseName": "Go Fundamentals", "amt": 4999, "courseId": courseID,
		},
		"reg": "student",
	}
	status, env = e.call(t, http.MethodPost, "/api/pending", pending, "")
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	assert.Equal(t, "awaiting_maintenance_payment", registrationStatus(t, env))

	status, _ = e.call(t, http.MethodPost, "/api/pending", pending, "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, env = e.call(t, http.MethodPost, "/api/maintenance", fiber.Map{
		"registrationData": fiber.Map{"email": "asha@x.com", "courseName": "Go Fundamentals", "transid": "TX2"},
		"reg":              0,
	}, "")
	require.Equal(t, fiber.StatusOK, status, env.Message)

	check := fiber.Map{"email": "asha@x.com", "courseId": courseID}
	_, env = e.call(t, http.MethodPost, "/api/pending-check", check, "")
	assert.Equal(t, "pending_review", registrationStatus(t, env))

	status, _ = e.call(t, http.MethodGet, "/api/admin-check", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = e.call(t, http.MethodGet, "/api/admin-check", nil, admin)
	require.Equal(t, fiber.StatusOK, status)
	var waiting []json.RawMessage
	decode(t, env.Data, &waiting)
	assert.Len(t, waiting, 1)

	status, env = e.call(t, http.MethodPost, "/api/admin-approve", fiber.Map{
		"email": "asha@x.com", "courseId": courseID, "reg": "student",
	}, admin)
	require.Equal(t, fiber.StatusOK, status, env.Message)

	_, env = e.call(t, http.MethodPost, "/api/pending-check", check, "")
	assert.Equal(t, "approved", registrationStatus(t, env))

	status, env = e.call(t, http.MethodPost, "/api/check-course-access", check, "")
	require.Equal(t, fiber.StatusOK, status)
	var access struct {
		HasAccess bool `json:"hasAccess"`
	}
	decode(t, env.Data, &access)
	assert.True(t, access.HasAccess)

	msg, ok := e.mailer.Last()
	require.True(t, ok)
	assert.Equal(t, []string{"asha@x.com"}, msg.To)

	status, env = e.call(t, http.MethodGet, fmt.Sprintf("/api/user-course-modules/%d/%d", userID, courseID), nil, "")
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var modules []struct {
		ID        uint              `json:"ID"`
		Week      int               `json:"week"`
		Materials []json.RawMessage `json:"materials"`
	}
	decode(t, env.Data, &modules)
	require.Len(t, modules, 1)
	assert.Equal(t, 1, modules[0].Week)
	assert.Len(t, modules[0].Materials, 1)

	status, env = e.call(t, http.MethodGet, fmt.Sprintf("/api/user-courses/%d", userID), nil, "")
	require.Equal(t, fiber.StatusOK, status)
	var courses []json.RawMessage
	decode(t, env.Data, &courses)
	assert.Len(t, courses, 1)

	status, env = e.call(t, http.MethodPost, "/api/generate-video-token", fiber.Map{
		"email": "asha@x.com", "moduleId": modules[0].ID,
	}, "")
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var tok struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &tok)

	status, page := e.do(t, http.MethodGet, fmt.Sprintf("/api/secure-video/%d?token=%s", modules[0].ID, tok.Token), nil, "")
	require.Equal(t, fiber.StatusOK, status, string(page))
	assert.Contains(t, string(page), "dQw4w9WgXcQ")
	assert.Contains(t, string(page), "asha@x.com")

	status, env = e.call(t, http.MethodPost, "/api/generate-video-token-mobile", fiber.Map{
		"userId": userID, "moduleId": modules[0].ID,
	}, "")
	assert.Equal(t, fiber.StatusOK, status, env.Message)
}

func TestVideoTokenRequiresAccess(t *testing.T) {
	e := newTestEnv(t, nil)
	courseID := e.createCourse(t, e.adminToken(t))
	e.signUp(t, "ravi@x.com")

	_, env := e.call(t, http.MethodGet, fmt.Sprintf("/api/course-modules/%d", courseID), nil, "")
	var modules []struct {
		ID uint `json:"ID"`
	}
	decode(t, env.Data, &modules)
	require.Len(t, modules, 2)

	status, _ := e.call(t, http.MethodPost, "/api/generate-video-token", fiber.Map{
		"email": "ravi@x.com", "moduleId": modules[0].ID,
	}, "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := e.do(t, http.MethodGet, fmt.Sprintf("/api/secure-video/%d", modules[0].ID), nil, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Access denied: No token provided", string(body))

	status, _ = e.do(t, http.MethodGet, fmt.Sprintf("/api/secure-video/%d?token=garbage", modules[0].ID), nil, "")
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	e := newTestEnv(t, nil)
	e.signUp(t, "asha@x.com")

	status, env := e.call(t, http.MethodPost, "/api/login", fiber.Map{
		"email": "asha@x.com", "password": "wrong-pass",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.Status)

	status, _ = e.call(t, http.MethodPost, "/api/employee_login", fiber.Map{
		"email": "asha@x.com", "password": "secret123",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestPasswordReset(t *testing.T) {
	e := newTestEnv(t, nil)
	e.signUp(t, "asha@x.com")

	status, _ := e.call(t, http.MethodPost, "/api/forgot-password", fiber.Map{"email": "asha@x.com"}, "")
	require.Equal(t, fiber.StatusOK, status)
	code := e.lastOTP(t)

	status, _ = e.call(t, http.MethodPost, "/api/verify-otp", fiber.Map{"email": "asha@x.com", "otp": code}, "")
	require.Equal(t, fiber.StatusOK, status)

	status, _ = e.call(t, http.MethodPost, "/api/reset-password", fiber.Map{
		"email": "asha@x.com", "otp": code, "password": "newsecret",
	}, "")
	require.Equal(t, fiber.StatusOK, status)

	status, _ = e.call(t, http.MethodPost, "/api/login", fiber.Map{
		"email": "asha@x.com", "password": "newsecret",
	}, "")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestValidationErrors(t *testing.T) {
	e := newTestEnv(t, nil)

	status, env := e.call(t, http.MethodPost, "/api/register", fiber.Map{"email": "not-an-email"}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	var errs map[string]string
	decode(t, env.Data, &errs)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	status, _ = e.call(t, http.MethodGet, "/api/course-modules/abc", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = e.call(t, http.MethodGet, "/api/no-such-route", nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestAdminRoutesOpenWithoutPassword(t *testing.T) {
	e := newTestEnv(t, func(cfg *config.Config) { cfg.AdminPassword = "" })

	status, _ := e.call(t, http.MethodGet, "/api/admin-check", nil, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = e.call(t, http.MethodPost, "/api/admin/login", fiber.Map{
		"email": "admin@sankalp.com", "password": "anything",
	}, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestStudentTokenCannotApprove(t *testing.T) {
	e := newTestEnv(t, nil)
	e.signUp(t, "asha@x.com")

	_, env := e.call(t, http.MethodPost, "/api/login", fiber.Map{
		"email": "asha@x.com", "password": "secret123",
	}, "")
	var data struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &data)

	status, _ := e.call(t, http.MethodGet, "/api/admin-check", nil, data.Token)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestOTPRoutesAreRateLimited(t *testing.T) {
	e := newTestEnv(t, func(cfg *config.Config) { cfg.RateLimitPerMin = 2 })

	body := fiber.Map{"name": "A", "email": "a@x.com", "message": "hi"}
	for i := 0; i < 2; i++ {
		status, _ := e.call(t, http.MethodPost, "/api/contact", body, "")
		require.Equal(t, fiber.StatusOK, status)
	}
	status, _ := e.call(t, http.MethodPost, "/api/contact", body, "")
	assert.Equal(t, fiber.StatusTooManyRequests, status)
}

func TestCertificateRoutes(t *testing.T) {
	renderer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 test"))
	}))
	defer renderer.Close()

	e := newTestEnv(t, func(cfg *config.Config) { cfg.CertificateServiceURL = renderer.URL })

	status, body := e.do(t, http.MethodPost, "/api/generate-certificate", fiber.Map{
		"name": "Asha", "domain": "Go", "start_date": "2024-01-01", "end_date": "2024-03-01",
	}, "")
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Equal(t, "%PDF-1.4 test", string(body))

	status, env := e.call(t, http.MethodPost, "/api/verify-certificate", fiber.Map{
		"holderName": "Nobody", "domainName": "Go", "issueDate": "2024-01-01",
	}, "")
	require.Equal(t, fiber.StatusOK, status)
	var data struct {
		Value int `json:"value"`
	}
	decode(t, env.Data, &data)
	assert.Equal(t, -1, data.Value)
}

func TestEnrollmentWithMixedCaseEmail(t *testing.T) {
	e := newTestEnv(t, nil)
	admin := e.adminToken(t)
	courseID := e.createCourse(t, admin)
	e.signUp(t, "asha@x.com")

	status, env := e.call(t, http.MethodPost, "/api/pending", fiber.Map{
		"pendingRegistrationData": fiber.Map{
			"name": "Asha", "email": "Asha@x.com", "transid": "TX1",
			"courseName": "Go Fundamentals", "amt": 4999, "courseId": courseID,
		},
	}, "")
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	status, env = e.call(t, http.MethodPost, "/api/maintenance", fiber.Map{
		"registrationData": fiber.Map{"email": "ASHA@x.com", "courseName": "Go Fundamentals", "transid": "TX2"},
	}, "")
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = e.call(t, http.MethodPost, "/api/admin-approve", fiber.Map{
		"email": "Asha@x.com", "courseId": courseID,
	}, admin)
	require.Equal(t, fiber.StatusOK, status, env.Message)

	_, env = e.call(t, http.MethodGet, fmt.Sprintf("/api/course-modules/%d", courseID), nil, "")
	var modules []struct {
		ID uint `json:"ID"`
	}
	decode(t, env.Data, &modules)
	require.NotEmpty(t, modules)

	status, env = e.call(t, http.MethodPost, "/api/generate-video-token", fiber.Map{
		"email": "Asha@x.com", "moduleId": modules[0].ID,
	}, "")
	assert.Equal(t, fiber.StatusOK, status, env.Message)
}
