package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/queue"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
)

type fakePublisher struct {
	events []queue.ReservationPaidEvent
	err    error
}

func (f *fakePublisher) PublishReservationPaid(_ context.Context, ev queue.ReservationPaidEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

func newPaymentService(t *testing.T) (*PaymentService, sqlmock.Sqlmock, *fakePublisher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pub := &fakePublisher{}
	svc := NewPaymentService(db,
		repository.NewTripRepo(db),
		repository.NewReservationRepo(db),
		repository.NewTicketRepo(db),
		repository.NewUserRepo(db),
		pub,
		slog.New(slog.DiscardHandler),
	)
	return svc, mock, pub
}

var userCols = []string{
	"id_usuario", "correo", "documento", "nombre", "contacto", "eps",
	"fecha_nacimiento", "subtipo", "password_hash", "created_at", "updated_at",
}

func TestConfirmPayment(t *testing.T) {
	svc, mock, pub := newPaymentService(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, 1, 7, 3, 60000, true, false, 0, "ninguno"))
	mock.ExpectQuery(`SELECT (.+) FROM viaje v JOIN destino d (.+) FOR UPDATE`).
		WithArgs(uint64(7)).
		WillReturnRows(tripRow(7, 20000, futureDate(), false))
	mock.ExpectExec(`UPDATE reserva SET pagado = 1, metodo_pago = `).
		WithArgs("tarjeta", uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boleto SET activo = `).
		WithArgs(true, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()
	// Post-commit notification lookups.
	mock.ExpectQuery(`SELECT (.+) FROM usuario WHERE id_usuario`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			1, "ana@example.com", "10203040", "Ana Gómez", "3001234567", "Sura",
			nil, "C", nil, now, now))
	mock.ExpectQuery(`SELECT codigo FROM boleto WHERE id_reserva`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"codigo"}).
			AddRow("code-1").AddRow("code-2").AddRow("code-3"))

	err := svc.Confirm(context.Background(), 42, "tarjeta")
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, uint64(42), ev.ReservationID)
	assert.Equal(t, "ana@example.com", ev.Correo)
	assert.Equal(t, "Guatapé", ev.Destino)
	assert.Equal(t, int64(60000), ev.Total)
	assert.Equal(t, []string{"code-1", "code-2", "code-3"}, ev.TicketCodes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentAlreadyPaid(t *testing.T) {
	svc, mock, pub := newPaymentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, 1, 7, 3, 60000, true, true, 0, "ninguno"))
	mock.ExpectRollback()

	err := svc.Confirm(context.Background(), 42, "tarjeta")
	assert.ErrorIs(t, err, repository.ErrAlreadyPaid)
	assert.Empty(t, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Once refunded, a reservation can only be cancelled; paying it again
// would re-activate tickets the refund already deactivated.
func TestConfirmPaymentAfterRefund(t *testing.T) {
	svc, mock, pub := newPaymentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, 1, 7, 3, 60000, true, false, 60000, model.RefundTotal))
	mock.ExpectRollback()

	err := svc.Confirm(context.Background(), 42, "tarjeta")
	assert.ErrorIs(t, err, repository.ErrAlreadyRefunded)
	assert.Empty(t, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentCancelledReservation(t *testing.T) {
	svc, mock, pub := newPaymentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, 1, 7, 3, 60000, false, false, 0, "ninguno"))
	mock.ExpectRollback()

	err := svc.Confirm(context.Background(), 42, "tarjeta")
	assert.ErrorIs(t, err, repository.ErrNotActive)
	assert.Empty(t, pub.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A broker outage must not fail the payment.
func TestConfirmPaymentPublishFailureIsSwallowed(t *testing.T) {
	svc, mock, pub := newPaymentService(t)
	pub.err = assert.AnError
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, 1, 7, 3, 60000, true, false, 0, "ninguno"))
	mock.ExpectQuery(`SELECT (.+) FROM viaje v JOIN destino d (.+) FOR UPDATE`).
		WithArgs(uint64(7)).
		WillReturnRows(tripRow(7, 20000, futureDate(), false))
	mock.ExpectExec(`UPDATE reserva SET pagado = 1, metodo_pago = `).
		WithArgs("efectivo", uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boleto SET activo = `).
		WithArgs(true, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT (.+) FROM usuario WHERE id_usuario`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			1, "ana@example.com", "10203040", "Ana Gómez", "3001234567", "Sura",
			nil, "C", nil, now, now))
	mock.ExpectQuery(`SELECT codigo FROM boleto WHERE id_reserva`).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"codigo"}).AddRow("code-1"))

	err := svc.Confirm(context.Background(), 42, "efectivo")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundTotalOutsideWindow(t *testing.T) {
	svc, mock, _ := newPaymentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, 1, 7, 3, 60000, true, true, 0, "ninguno"))
	mock.ExpectQuery(`SELECT (.+) FROM viaje v JOIN destino d (.+) FOR UPDATE`).
		WithArgs(uint64(7)).
		WillReturnRows(tripRow(7, 20000, time.Now().AddDate(0, 0, 10), false))
	mock.ExpectExec(`UPDATE reserva SET pagado = 0, reembolso = `).
		WithArgs(int64(60000), "total", uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boleto SET activo = `).
		WithArgs(false, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	amount, tipo, err := svc.Refund(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(60000), amount)
	assert.Equal(t, model.RefundTotal, tipo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundPartialInsideWindow(t *testing.T) {
	svc, mock, _ := newPaymentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, 1, 7, 3, 60000, true, true, 0, "ninguno"))
	mock.ExpectQuery(`SELECT (.+) FROM viaje v JOIN destino d (.+) FOR UPDATE`).
		WithArgs(uint64(7)).
		WillReturnRows(tripRow(7, 20000, time.Now().Add(48*time.Hour), false))
	mock.ExpectExec(`UPDATE reserva SET pagado = 0, reembolso = `).
		WithArgs(int64(30000), "parcial", uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE boleto SET activo = `).
		WithArgs(false, uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	amount, tipo, err := svc.Refund(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), amount)
	assert.Equal(t, model.RefundPartial, tipo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundNotPaid(t *testing.T) {
	svc, mock, _ := newPaymentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, 1, 7, 3, 60000, true, false, 0, "ninguno"))
	mock.ExpectRollback()

	_, _, err := svc.Refund(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotPaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundTwice(t *testing.T) {
	svc, mock, _ := newPaymentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM reserva WHERE id_reserva = (.+) FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, 1, 7, 3, 60000, true, true, 30000, "parcial"))
	mock.ExpectRollback()

	_, _, err := svc.Refund(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrAlreadyRefunded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundFor(t *testing.T) {
	// Trip dates come from a DATE column, so they are always midnight; now
	// carries a time of day the gate must ignore.
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	date := func(day int) time.Time {
		return time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC)
	}
	cases := []struct {
		name     string
		tripDate time.Time
		total    int64
		amount   int64
		tipo     string
	}{
		{"ten days out", date(11), 60000, 60000, model.RefundTotal},
		{"exactly three days out", date(4), 60000, 60000, model.RefundTotal},
		{"two days out", date(3), 60000, 30000, model.RefundPartial},
		{"same day", date(1), 60000, 30000, model.RefundPartial},
		{"odd total truncates", date(1), 99999, 49999, model.RefundPartial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, tipo := RefundFor(tc.total, tc.tripDate, now)
			assert.Equal(t, tc.amount, amount)
			assert.Equal(t, tc.tipo, tipo)
		})
	}
}
