package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/everafter-dev/wedding-back/internal/db"
	"github.com/everafter-dev/wedding-back/internal/service"
)

func TestCensorBody(t *testing.T) {
	b := `{
		"email": "email@email.com",
		"password": "123456789123",
		"confirm_password": "123456789123"
	}`

	got := censorBody([]byte(b))
	assert.JSONEq(t, `{
		"email": "email@email.com",
		"password": "$censored",
		"confirm_password": "$censored"
	}`, string(got))
}

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	return &HTTPServer{
		svc:    service.NewGeneral(gdb, zap.NewNop().Sugar()),
		logger: zap.NewNop().Sugar(),
	}
}

func TestGetStartedHandler(t *testing.T) {
	s := newTestServer(t)
	e := echo.New()

	body := `{
		"name": "Jane Doe",
		"email": "jane@x.com",
		"password": "secret1",
		"confirm_password": "secret1",
		"bride": "Jane",
		"groom": "John",
		"wedding_date": "2025-06-01T18:00:00Z",
		"venue": "Garden Hall",
		"venue_address": "1 Main St"
	}`
	req := httptest.NewRequest(http.MethodPost, "/get-started", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, s.GetStarted(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	got := GetStartedResp{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Jane", got.User.FirstName)
	assert.Equal(t, "Doe", got.User.LastName)
	assert.Equal(t, "gardenRomance", got.Wedding.Template)
	assert.Equal(t, "#D4B08C", got.Wedding.PrimaryColor)
	assert.Len(t, got.Wedding.UniqueURL, 12)
	assert.NotEmpty(t, got.Message)

	// password is write-only
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestGetStartedHandlerMismatch(t *testing.T) {
	s := newTestServer(t)
	e := echo.New()

	body := `{
		"name": "Jane Doe",
		"email": "jane@x.com",
		"password": "secret1",
		"confirm_password": "other",
		"bride": "Jane",
		"groom": "John",
		"wedding_date": "2025-06-01T18:00:00Z",
		"venue": "Garden Hall",
		"venue_address": "1 Main St"
	}`
	req := httptest.NewRequest(http.MethodPost, "/get-started", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, s.GetStarted(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	got := struct {
		Errors map[string]string `json:"errors"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got.Errors, "confirm_password")
}

func TestWeddingByURLHandlerNotFound(t *testing.T) {
	s := newTestServer(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/weddings/url/:uniqueUrl")
	c.SetParamNames("uniqueUrl")
	c.SetParamValues("nope00000000")

	require.NoError(t, s.WeddingByURL(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "Wedding not found"}`, rec.Body.String())
}
