package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Straver00/Chivas-travel-api/internal/config"
	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
	"github.com/Straver00/Chivas-travel-api/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
		LoginSubtypes:  map[string]bool{model.SubtypeClient: true, model.SubtypeAdmin: true},
	}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

var userRowCols = []string{
	"id_usuario", "correo", "documento", "nombre", "contacto", "eps",
	"fecha_nacimiento", "subtipo", "password_hash", "created_at", "updated_at",
}

func clientRow(t *testing.T, id uint64, correo, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	require.NoError(t, err)
	now := time.Now()
	birth := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(userRowCols).AddRow(
		id, correo, "1035468790", "Ana Gómez", "3001234567", "Sura",
		birth, model.SubtypeClient, hash, now, now,
	)
}

func postJSON(path, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	req, rec := postJSON("/v1/auth/register", `{"correo":"not-an-email","documento":"1035468790","nombre":"Ana Gómez","contacto":"3001234567","fecha_nacimiento":"1995-04-12","password":"Segura#2026"}`)

	require.NoError(t, h.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "correo")
}

func TestRegisterRejectsMinor(t *testing.T) {
	h, _ := newAuthHandler(t)

	minor := time.Now().AddDate(-17, 0, 0).Format("2006-01-02")
	e := echo.New()
	req, rec := postJSON("/v1/auth/register", `{"correo":"nina@example.com","documento":"1035468790","nombre":"Nina Pérez","contacto":"3001234567","fecha_nacimiento":"`+minor+`","password":"Segura#2026"}`)

	require.NoError(t, h.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginSuccess(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM usuario WHERE correo = (.+) AND subtipo = (.+)`).
		WithArgs("ana@example.com", model.SubtypeClient).
		WillReturnRows(clientRow(t, 5, "ana@example.com", "Segura#2026"))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	e := echo.New()
	req, rec := postJSON("/v1/auth/login", `{"correo":"ana@example.com","password":"Segura#2026"}`)

	require.NoError(t, h.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access"`)
	assert.Contains(t, rec.Body.String(), `"refresh"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM usuario WHERE correo = (.+) AND subtipo = (.+)`).
		WithArgs("ana@example.com", model.SubtypeClient).
		WillReturnRows(clientRow(t, 5, "ana@example.com", "Segura#2026"))

	e := echo.New()
	req, rec := postJSON("/v1/auth/login", `{"correo":"ana@example.com","password":"otra-clave"}`)

	require.NoError(t, h.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginGuestSubtypeRejected(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	req, rec := postJSON("/v1/auth/login", `{"correo":"ana@example.com","subtipo":"G","password":"Segura#2026"}`)

	require.NoError(t, h.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	h, mock := newAuthHandler(t)

	raw := "0123456789abcdef0123456789abcdef"
	hash := utils.HashRefreshRaw(raw)

	mock.ExpectQuery(`SELECT user_id, expires_at, revoked FROM refresh_tokens WHERE token_hash = (.+)`).
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked"}).
			AddRow(uint64(5), time.Now().Add(24*time.Hour), false))
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = 1 WHERE token_hash = (.+)`).
		WithArgs(hash).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM usuario WHERE id_usuario = (.+)`).
		WithArgs(uint64(5)).
		WillReturnRows(clientRow(t, 5, "ana@example.com", "Segura#2026"))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(2, 1))

	e := echo.New()
	req, rec := postJSON("/v1/auth/refresh", `{"refresh_token":"`+raw+`"}`)

	require.NoError(t, h.Refresh(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshExpiredToken(t *testing.T) {
	h, mock := newAuthHandler(t)

	raw := "feedfacefeedfacefeedfacefeedface"
	mock.ExpectQuery(`SELECT user_id, expires_at, revoked FROM refresh_tokens WHERE token_hash = (.+)`).
		WithArgs(utils.HashRefreshRaw(raw)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked"}).
			AddRow(uint64(5), time.Now().Add(-time.Hour), false))

	e := echo.New()
	req, rec := postJSON("/v1/auth/refresh", `{"refresh_token":"`+raw+`"}`)

	require.NoError(t, h.Refresh(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
