package certificate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sankalp/database"
	"sankalp/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T, handler http.HandlerFunc) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(db, NewRenderer(srv.URL, 5*time.Second)), db
}

func store(t *testing.T, db *gorm.DB, name, domain string, day time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&course.Certificate{
		HolderName:        name,
		Domain:            domain,
		Status:            course.CertificateIssued,
		IssueDate:         issueDay(day),
		CertificateNumber: uuid.NewString(),
	}).Error)
}

func TestVerifyExactlyOneMatch(t *testing.T) {
	svc, db := newService(t, nil)
	ctx := context.Background()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	value, err := svc.Verify(ctx, "Jane Doe", "Web Dev", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, NotFound, value)

	store(t, db, "Jane Doe", "Web Dev", day)
	value, err = svc.Verify(ctx, "Jane Doe", "Web Dev", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, course.CertificateIssued, value)

	value, err = svc.Verify(ctx, "Jane Doe", "Web Dev", "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, NotFound, value)

	store(t, db, "Jane Doe", "Web Dev", day)
	value, err = svc.Verify(ctx, "Jane Doe", "Web Dev", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, NotFound, value)
}

func TestVerifyRejectsBadDate(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.Verify(context.Background(), "Jane", "Web", "01/01/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestGenerateRecordsCertificate(t *testing.T) {
	var got Request
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate-certificate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	svc.now = func() time.Time { return time.Date(2024, 2, 10, 15, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	issued, err := svc.Generate(ctx, Request{Name: "Jane O'Doe", Domain: "Web Dev", StartDate: "2024-01-01", EndDate: "2024-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(issued.PDF))
	assert.Equal(t, "Jane_O_Doe_Certificate.pdf", issued.FileName)
	assert.Equal(t, "other", got.Gender)
	require.NotNil(t, issued.Record)
	assert.NotEmpty(t, issued.Record.CertificateNumber)

	value, err := svc.Verify(ctx, "Jane O'Doe", "Web Dev", "2024-02-10")
	require.NoError(t, err)
	assert.Equal(t, course.CertificateIssued, value)
}

func TestGeneratePropagatesRendererStatus(t *testing.T) {
	svc, db := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"template missing"}`))
	})

	_, err := svc.Generate(context.Background(), Request{Name: "Jane", Domain: "Web"})
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusUnprocessableEntity, re.Status)
	assert.Equal(t, "template missing", re.Message)

	var n int64
	require.NoError(t, db.Model(&course.Certificate{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestGenerateRendererDown(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewService(db, NewRenderer(url, time.Second))
	_, err = svc.Generate(context.Background(), Request{Name: "Jane", Domain: "Web"})
	assert.ErrorIs(t, err, ErrRenderer)
}
