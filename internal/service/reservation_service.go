// Package service contains the booking core: reservation lifecycle and the
// payment state machine. Every multi-step mutation runs inside one database
// transaction; seat capacity is only ever touched through the trip
// repository's seat-delta operation so the ledger invariant (capacity plus
// active reservations' seats equals the configured cupo) holds structurally.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Straver00/Chivas-travel-api/internal/database"
	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
	"github.com/Straver00/Chivas-travel-api/internal/validation"
)

// GuestInput names one invited co-traveler on a new reservation.
type GuestInput struct {
	Correo    string
	Nombre    string
	Documento string
}

// CreateReservationResult reports the outcome of a successful creation.
type CreateReservationResult struct {
	ReservationID uint64
	NBoletas      int
	Total         int64
	TicketCodes   []string
}

// ReservationService drives the reservation lifecycle: create, edit and
// cancel. It owns no state beyond its repositories; all invariants live in
// the transactions it runs.
type ReservationService struct {
	db           *sql.DB
	trips        *repository.TripRepo
	reservations *repository.ReservationRepo
	users        *repository.UserRepo
	tickets      *repository.TicketRepo
	invites      *repository.InviteRepo
	log          *slog.Logger
}

// NewReservationService wires a ReservationService from its repositories.
func NewReservationService(db *sql.DB, trips *repository.TripRepo, reservations *repository.ReservationRepo,
	users *repository.UserRepo, tickets *repository.TicketRepo, invites *repository.InviteRepo,
	log *slog.Logger) *ReservationService {
	return &ReservationService{
		db:           db,
		trips:        trips,
		reservations: reservations,
		users:        users,
		tickets:      tickets,
		invites:      invites,
		log:          log,
	}
}

// ErrValidation wraps a field rejection so the HTTP layer can answer 400.
type ErrValidation struct{ Reason string }

func (e ErrValidation) Error() string { return e.Reason }

// Create books seats on a trip for a user and their invited guests. The
// seat count is one for the booker plus one per guest. Guest accounts are
// provisioned idempotently by email, the invite link is recorded, the seat
// delta goes through the capacity ledger, and one ticket is issued per seat
// holder. Everything runs in a single transaction: a failure at any step
// leaves no trace.
func (s *ReservationService) Create(ctx context.Context, userID, tripID uint64, guests []GuestInput) (*CreateReservationResult, error) {
	for _, g := range guests {
		if err := validation.Correo(g.Correo); err != nil {
			return nil, ErrValidation{Reason: err.Error()}
		}
		if err := validation.FullName(g.Nombre); err != nil {
			return nil, ErrValidation{Reason: err.Error()}
		}
		if err := validation.Documento(g.Documento); err != nil {
			return nil, ErrValidation{Reason: err.Error()}
		}
	}
	seatCount := 1 + len(guests)

	var result CreateReservationResult
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		trip, err := s.trips.GetForUpdateTx(ctx, tx, tripID)
		if err != nil {
			return err
		}
		if trip.Cancelado || tripDeparted(trip.Fecha, time.Now()) {
			return repository.ErrTripNotActive
		}

		exists, err := s.users.ExistsTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return repository.ErrUserNotFound
		}

		if err := s.trips.ApplySeatDeltaTx(ctx, tx, tripID, seatCount); err != nil {
			return err
		}

		total := int64(seatCount) * trip.Precio
		resID, err := s.reservations.CreateTx(ctx, tx, userID, tripID, seatCount, total)
		if err != nil {
			return err
		}

		owners := make([]uint64, 0, seatCount)
		owners = append(owners, userID)
		for _, g := range guests {
			guestID, err := s.users.FindOrCreateGuestTx(ctx, tx, g.Correo, g.Nombre, g.Documento)
			if err != nil {
				return fmt.Errorf("provision guest %s: %w", g.Correo, err)
			}
			// A repeat invite of the same person is not an error.
			if err := s.invites.AddTx(ctx, tx, userID, guestID); err != nil {
				s.log.Warn("invite link insert failed", "host", userID, "guest", guestID, "error", err)
			}
			owners = append(owners, guestID)
		}

		codes, err := s.tickets.IssueTx(ctx, tx, resID, owners, trip.Fecha, trip.HoraSalida)
		if err != nil {
			return err
		}

		result = CreateReservationResult{
			ReservationID: resID,
			NBoletas:      seatCount,
			Total:         total,
			TicketCodes:   codes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("reservation created",
		"reservation_id", result.ReservationID, "trip_id", tripID,
		"user_id", userID, "seats", result.NBoletas, "total", result.Total)
	return &result, nil
}

// Edit changes a reservation's seat count while it is still active and
// unpaid. The ledger receives only the delta, so growing the reservation
// can fail with ErrCapacityExceeded while shrinking always succeeds. The
// total is recomputed at the trip's current price. Tickets are not
// reissued; they represent the originally named seat holders.
func (s *ReservationService) Edit(ctx context.Context, reservationID uint64, newSeatCount int) (*model.Reservation, error) {
	if err := validation.SeatCount(newSeatCount); err != nil {
		return nil, ErrValidation{Reason: err.Error()}
	}

	var updated *model.Reservation
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := s.reservations.GetForUpdateTx(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if !res.Vigente {
			return repository.ErrAlreadyCancelled
		}
		if res.Pagado {
			return repository.ErrAlreadyPaid
		}

		trip, err := s.trips.GetForUpdateTx(ctx, tx, res.TripID)
		if err != nil {
			return err
		}

		delta := newSeatCount - res.NBoletas
		if err := s.trips.ApplySeatDeltaTx(ctx, tx, res.TripID, delta); err != nil {
			return err
		}

		total := int64(newSeatCount) * trip.Precio
		if err := s.reservations.UpdateSeatsTx(ctx, tx, reservationID, newSeatCount, total); err != nil {
			return err
		}

		res.NBoletas = newSeatCount
		res.Total = total
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("reservation edited",
		"reservation_id", reservationID, "seats", newSeatCount, "total", updated.Total)
	return updated, nil
}

// Cancel releases a reservation's seats back to the trip, clears vigente
// and deactivates its tickets, all in one transaction. A paid reservation
// must be refunded first.
func (s *ReservationService) Cancel(ctx context.Context, reservationID uint64) error {
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := s.reservations.GetForUpdateTx(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if !res.Vigente {
			return repository.ErrAlreadyCancelled
		}
		if res.Pagado {
			return repository.ErrAlreadyPaid
		}

		if err := s.trips.ApplySeatDeltaTx(ctx, tx, res.TripID, -res.NBoletas); err != nil {
			return err
		}
		if err := s.reservations.MarkCancelledTx(ctx, tx, reservationID); err != nil {
			return err
		}
		return s.tickets.SetActiveByReservationTx(ctx, tx, reservationID, false)
	})
	if err != nil {
		return err
	}

	s.log.Info("reservation cancelled", "reservation_id", reservationID)
	return nil
}

// IssueTicket issues one additional boleto on an active reservation, naming
// a holder for a seat added after creation. The trip's fecha and hora_salida
// are snapshotted onto the boleto; later schedule edits do not touch it.
func (s *ReservationService) IssueTicket(ctx context.Context, reservationID, holderID uint64) (string, error) {
	var code string
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := s.reservations.GetForUpdateTx(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if !res.Vigente {
			return repository.ErrAlreadyCancelled
		}
		ok, err := s.users.ExistsTx(ctx, tx, holderID)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrUserNotFound
		}
		trip, err := s.trips.GetForUpdateTx(ctx, tx, res.TripID)
		if err != nil {
			return err
		}
		codes, err := s.tickets.IssueTx(ctx, tx, reservationID, []uint64{holderID}, trip.Fecha, trip.HoraSalida)
		if err != nil {
			return err
		}
		code = codes[0]
		return nil
	})
	if err != nil {
		return "", err
	}

	s.log.Info("ticket issued",
		"reservation_id", reservationID, "holder_id", holderID, "codigo", code)
	return code, nil
}

// Get returns a reservation after checking the caller may see it: owners
// see their own, admins see all.
func (s *ReservationService) Get(ctx context.Context, reservationID, callerID uint64, callerSubtype string) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID != callerID && callerSubtype != model.SubtypeAdmin {
		return nil, repository.ErrForbidden
	}
	return res, nil
}

// ListByUser returns a user's reservations with trip details.
func (s *ReservationService) ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// OwnerOf reports whether the given user owns the reservation, used by
// handlers for ownership gates on edit and cancel.
func (s *ReservationService) OwnerOf(ctx context.Context, reservationID, userID uint64) (bool, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return false, err
	}
	return res.UserID == userID, nil
}

// tripDeparted reports whether a trip's date has already passed.
func tripDeparted(fecha time.Time, now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, fecha.Location())
	return fecha.Before(today)
}
