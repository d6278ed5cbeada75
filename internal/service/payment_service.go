package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Straver00/Chivas-travel-api/internal/database"
	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/queue"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
)

// refundWindow is how close to departure a refund stops being total. A trip
// fewer than three days away refunds half; otherwise the full amount. The
// threshold and the fraction are financially observable and must not drift.
const refundWindow = 3 * 24 * time.Hour

// PaidPublisher emits the post-payment notification event. Satisfied by
// *queue.Publisher; a fake stands in during tests.
type PaidPublisher interface {
	PublishReservationPaid(ctx context.Context, event queue.ReservationPaidEvent) error
}

// PaymentService drives a reservation through the payment state machine:
// unpaid, paid, refunded. Cancellation belongs to ReservationService; a paid
// reservation must pass through here (refund) before it can be cancelled.
type PaymentService struct {
	db           *sql.DB
	trips        *repository.TripRepo
	reservations *repository.ReservationRepo
	tickets      *repository.TicketRepo
	users        *repository.UserRepo
	publisher    PaidPublisher
	log          *slog.Logger
}

// NewPaymentService wires a PaymentService from its repositories and the
// event publisher.
func NewPaymentService(db *sql.DB, trips *repository.TripRepo, reservations *repository.ReservationRepo,
	tickets *repository.TicketRepo, users *repository.UserRepo, publisher PaidPublisher,
	log *slog.Logger) *PaymentService {
	return &PaymentService{
		db:           db,
		trips:        trips,
		reservations: reservations,
		tickets:      tickets,
		users:        users,
		publisher:    publisher,
		log:          log,
	}
}

// Confirm records a payment on an active, unpaid reservation: pagado flips,
// the payment method is stored and every ticket is (re)activated. After the
// transaction commits, a reserva.pagada event carrying the ticket codes is
// published so the payer gets them by email. Publishing is best-effort; a
// broker outage is logged and the payment stands.
func (s *PaymentService) Confirm(ctx context.Context, reservationID uint64, metodoPago string) error {
	var (
		res  *model.Reservation
		trip *model.Trip
	)
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		res, err = s.reservations.GetForUpdateTx(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if !res.Vigente {
			return repository.ErrNotActive
		}
		if res.Pagado {
			return repository.ErrAlreadyPaid
		}
		// A refunded reservation can only be cancelled, never paid again.
		if res.Reembolso > 0 || res.TipoReembolso != model.RefundNone {
			return repository.ErrAlreadyRefunded
		}

		trip, err = s.trips.GetForUpdateTx(ctx, tx, res.TripID)
		if err != nil {
			return err
		}

		if err := s.reservations.MarkPaidTx(ctx, tx, reservationID, metodoPago); err != nil {
			return err
		}
		return s.tickets.SetActiveByReservationTx(ctx, tx, reservationID, true)
	})
	if err != nil {
		return err
	}

	s.log.Info("payment confirmed",
		"reservation_id", reservationID, "metodo_pago", metodoPago, "total", res.Total)
	s.notifyPaid(res, trip)
	return nil
}

// Refund releases a held payment. Valid only from paid+active with no prior
// refund. The refunded amount is time-gated against the trip date: fewer
// than three days out refunds half the total ("parcial"), otherwise the
// full total ("total"). Tickets are deactivated but seats are NOT released:
// the reservation stays active and the user cancels it separately if they
// also want to give up the seats.
func (s *PaymentService) Refund(ctx context.Context, reservationID uint64) (amount int64, tipo string, err error) {
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := s.reservations.GetForUpdateTx(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if !res.Vigente {
			return repository.ErrNotActive
		}
		if !res.Pagado {
			return repository.ErrNotPaid
		}
		if res.Reembolso > 0 || res.TipoReembolso != model.RefundNone {
			return repository.ErrAlreadyRefunded
		}

		trip, err := s.trips.GetForUpdateTx(ctx, tx, res.TripID)
		if err != nil {
			return err
		}

		amount, tipo = RefundFor(res.Total, trip.Fecha, time.Now())
		if err := s.reservations.MarkRefundedTx(ctx, tx, reservationID, amount, tipo); err != nil {
			return err
		}
		return s.tickets.SetActiveByReservationTx(ctx, tx, reservationID, false)
	})
	if err != nil {
		return 0, "", err
	}

	s.log.Info("payment refunded",
		"reservation_id", reservationID, "amount", amount, "tipo", tipo)
	return amount, tipo, nil
}

// RefundFor computes the refund amount and kind for a paid total given the
// trip date: half (truncated) inside the three-day window, full otherwise.
// The window is counted in calendar days from the start of today, since
// trip dates carry no time of day; a trip exactly three days out refunds
// in full regardless of the current wall-clock time.
func RefundFor(total int64, tripDate, now time.Time) (int64, string) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, tripDate.Location())
	if tripDate.Before(today.Add(refundWindow)) {
		return total / 2, model.RefundPartial
	}
	return total, model.RefundTotal
}

// notifyPaid assembles and publishes the post-payment event. Runs after
// commit; every failure is logged and swallowed.
func (s *PaymentService) notifyPaid(res *model.Reservation, trip *model.Trip) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	payer, err := s.users.GetByID(ctx, res.UserID)
	if err != nil {
		s.log.Warn("paid notification skipped: payer lookup failed",
			"reservation_id", res.ID, "user_id", res.UserID, "error", err)
		return
	}
	codes, err := s.tickets.CodesByReservation(ctx, res.ID)
	if err != nil {
		s.log.Warn("paid notification skipped: ticket codes lookup failed",
			"reservation_id", res.ID, "error", err)
		return
	}

	ev := queue.ReservationPaidEvent{
		ReservationID: res.ID,
		TripID:        trip.ID,
		Correo:        payer.Correo,
		Nombre:        payer.Nombre,
		Destino:       trip.Destino,
		Fecha:         trip.Fecha.Format("2006-01-02"),
		HoraSalida:    trip.HoraSalida,
		Total:         res.Total,
		TicketCodes:   codes,
		PaidAt:        time.Now().UTC(),
	}
	if err := s.publisher.PublishReservationPaid(ctx, ev); err != nil {
		s.log.Warn("paid notification publish failed",
			"reservation_id", res.ID, "error", err)
	}
}
