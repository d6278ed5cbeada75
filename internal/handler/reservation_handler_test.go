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

	"log/slog"

	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
	"github.com/Straver00/Chivas-travel-api/internal/service"
)

func newReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := service.NewReservationService(db,
		repository.NewTripRepo(db),
		repository.NewReservationRepo(db),
		repository.NewUserRepo(db),
		repository.NewTicketRepo(db),
		repository.NewInviteRepo(db),
		slog.New(slog.DiscardHandler))
	return NewReservationHandler(svc, repository.NewTicketRepo(db)), mock
}

// authedContext builds an echo context carrying the identity JWTAuth would
// have attached.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID uint64, subtipo string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("subtipo", subtipo)
	return c
}

var storedReservationCols = []string{
	"id_reserva", "id_usuario", "id_viaje", "n_boletas", "total",
	"vigente", "pagado", "metodo_pago", "reembolso", "tipo_reembolso",
	"created_at", "updated_at",
}

func storedReservation(id, userID uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(storedReservationCols).AddRow(
		id, userID, uint64(7), 3, int64(180000),
		true, false, nil, int64(0), model.RefundNone,
		now, now,
	)
}

func TestCreateReservationRequiresTrip(t *testing.T) {
	h, _ := newReservationHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservas", strings.NewReader(`{"invitados":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(authedContext(e, req, rec, 5, model.SubtypeClient)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "id_viaje")
}

func TestEditReservationNotOwned(t *testing.T) {
	h, mock := newReservationHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+)`).
		WithArgs(uint64(42)).
		WillReturnRows(storedReservation(42, 5))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"n_boletas":4}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, model.SubtypeClient)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Edit(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReservationAsOwner(t *testing.T) {
	h, mock := newReservationHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+)`).
		WithArgs(uint64(42)).
		WillReturnRows(storedReservation(42, 5))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 5, model.SubtypeClient)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id_reserva":42`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReservationForbiddenForStranger(t *testing.T) {
	h, mock := newReservationHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+)`).
		WithArgs(uint64(42)).
		WillReturnRows(storedReservation(42, 5))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, model.SubtypeClient)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReservationAsAdminSkipsOwnershipLookup(t *testing.T) {
	h, mock := newReservationHandler(t)

	// No ownership query: the admin gate short-circuits straight into the
	// cancellation transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(storedReservation(42, 5))
	mock.ExpectExec(`UPDATE viaje SET cupo = cupo \+ `).
		WithArgs(3, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE reserva SET vigente = 0 WHERE id_reserva = (.+)`).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boleto SET activo = (.+) WHERE id_reserva = (.+)`).
		WithArgs(false, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 1, model.SubtypeAdmin)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMyReservations(t *testing.T) {
	h, mock := newReservationHandler(t)

	now := time.Now()
	cols := append(append([]string{}, storedReservationCols...),
		"nombre", "origen", "fecha", "hora_salida")
	rows := sqlmock.NewRows(cols).AddRow(
		uint64(42), uint64(5), uint64(7), 3, int64(180000),
		true, false, nil, int64(0), model.RefundNone,
		now, now,
		"Guatapé", "Medellín", time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), "08:00")
	mock.ExpectQuery(`SELECT (.+) FROM reserva r (.+) WHERE r.id_usuario = (.+)`).
		WithArgs(uint64(5)).
		WillReturnRows(rows)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/mis-reservas", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.ListMine(authedContext(e, req, rec, 5, model.SubtypeClient)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"destino":"Guatapé"`)
	assert.Contains(t, rec.Body.String(), `"fecha":"2026-09-10"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMyTickets(t *testing.T) {
	h, mock := newReservationHandler(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id_boleto", "codigo", "id_reserva", "id_usuario", "fecha_viaje", "hora_salida", "activo", "created_at",
	}).AddRow(uint64(1), "3f2c9a44-1111-2222-3333-444455556666", uint64(42), uint64(5), now.AddDate(0, 1, 0), "08:00", true, now)
	mock.ExpectQuery(`SELECT (.+) FROM boleto WHERE id_usuario = (.+)`).
		WithArgs(uint64(5)).
		WillReturnRows(rows)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/mis-boletos", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.ListMyTickets(authedContext(e, req, rec, 5, model.SubtypeClient)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "3f2c9a44")
	assert.NoError(t, mock.ExpectationsWereMet())
}
