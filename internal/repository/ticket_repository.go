package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Straver00/Chivas-travel-api/internal/model"
)

// TicketRepo manages boletos. Issuance happens inside the reservation
// transaction; a ticket snapshots the trip's date and departure time at the
// moment it is issued, so later schedule edits never rewrite already-issued
// tickets.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// IssueTx inserts one boleto per passenger within the caller's transaction
// and returns the generated codes. ownerID may repeat across calls for the
// same reservation when several tickets belong to the booking user (unnamed
// companions). fechaViaje and horaSalida are copied from the trip row read
// under lock by the caller.
func (r *TicketRepo) IssueTx(ctx context.Context, tx *sql.Tx, reservationID uint64, ownerIDs []uint64, fechaViaje time.Time, horaSalida string) ([]string, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	var (
		sb    strings.Builder
		args  []any
		codes []string
	)
	sb.WriteString(`INSERT INTO boleto (codigo, id_reserva, id_usuario, fecha_viaje, hora_salida) VALUES `)
	for i, ownerID := range ownerIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		code := uuid.NewString()
		codes = append(codes, code)
		args = append(args, code, reservationID, ownerID, fechaViaje.Format("2006-01-02"), horaSalida)
	}
	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return nil, err
	}
	return codes, nil
}

// SetActiveByReservationTx flips the activo flag on every boleto of a
// reservation within the caller's transaction. Used on payment confirmation
// (activate) and on cancellation or refund (deactivate).
func (r *TicketRepo) SetActiveByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64, active bool) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE boleto SET activo = ? WHERE id_reserva = ?`, active, reservationID)
	return err
}

// ListByReservation returns every boleto issued for a reservation.
func (r *TicketRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Ticket, error) {
	return r.queryTickets(ctx,
		`SELECT id_boleto, codigo, id_reserva, id_usuario, fecha_viaje, hora_salida, activo, created_at
		 FROM boleto WHERE id_reserva = ? ORDER BY id_boleto`, reservationID)
}

// ListByUser returns every boleto owned by a user, newest trip first. Guests
// see only their own ticket, never the rest of the reservation.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	return r.queryTickets(ctx,
		`SELECT id_boleto, codigo, id_reserva, id_usuario, fecha_viaje, hora_salida, activo, created_at
		 FROM boleto WHERE id_usuario = ? ORDER BY fecha_viaje DESC, id_boleto`, userID)
}

// CodesByReservation returns the ticket codes of a reservation, used when
// building the payment confirmation email.
func (r *TicketRepo) CodesByReservation(ctx context.Context, reservationID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT codigo FROM boleto WHERE id_reserva = ? ORDER BY id_boleto`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (r *TicketRepo) queryTickets(ctx context.Context, query string, args ...any) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.Codigo, &t.ReservaID, &t.UserID,
			&t.FechaViaje, &t.HoraSalida, &t.Activo, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
