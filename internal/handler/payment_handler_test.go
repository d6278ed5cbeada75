package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
	"github.com/Straver00/Chivas-travel-api/internal/service"
)

func newPaymentHandler(t *testing.T) (*PaymentHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := service.NewPaymentService(db,
		repository.NewTripRepo(db),
		repository.NewReservationRepo(db),
		repository.NewTicketRepo(db),
		repository.NewUserRepo(db),
		nil,
		slog.New(slog.DiscardHandler))
	return NewPaymentHandler(svc), mock
}

func TestConfirmPaymentRequiresMethod(t *testing.T) {
	h, _ := newPaymentHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "metodo_pago")
}

func TestRefundReportsAmountAndKind(t *testing.T) {
	h, mock := newPaymentHandler(t)

	now := time.Now()
	paid := sqlmock.NewRows(storedReservationCols).AddRow(
		uint64(42), uint64(5), uint64(7), 3, int64(180000),
		true, true, "efectivo", int64(0), model.RefundNone,
		now, now,
	)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(paid)
	mock.ExpectQuery(`SELECT (.+) FROM viaje v JOIN destino d (.+) FOR UPDATE`).
		WithArgs(uint64(7)).
		WillReturnRows(catalogRow(sqlmock.NewRows(tripRowCols), 7, "Guatapé"))
	mock.ExpectExec(`UPDATE reserva SET pagado = 0, reembolso = (.+), tipo_reembolso = (.+)`).
		WithArgs(int64(180000), model.RefundTotal, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boleto SET activo = (.+) WHERE id_reserva = (.+)`).
		WithArgs(false, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Refund(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reembolso":180000`)
	assert.Contains(t, rec.Body.String(), model.RefundTotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}
