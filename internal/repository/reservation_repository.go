package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Straver00/Chivas-travel-api/internal/model"
)

// ReservationRepo provides CRUD operations for reservas. State transitions
// (edit, cancel, pay, refund) always run through the ...Tx methods inside a
// transaction opened by the service layer; the plain methods serve reads.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given
// database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id_reserva, id_usuario, id_viaje, n_boletas, total,
       vigente, pagado, metodo_pago, reembolso, tipo_reembolso, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var metodo sql.NullString
	err := row.Scan(&res.ID, &res.UserID, &res.TripID, &res.NBoletas, &res.Total,
		&res.Vigente, &res.Pagado, &metodo, &res.Reembolso, &res.TipoReembolso,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if metodo.Valid {
		m := metodo.String
		res.MetodoPago = &m
	}
	return &res, nil
}

// CreateTx inserts a new reserva within the caller's transaction and
// returns its generated ID. A violation of the (id_usuario, id_viaje)
// unique key yields ErrDuplicateReservation: one reservation per user per
// trip, in any state.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID, tripID uint64, nBoletas int, total int64) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reserva (id_usuario, id_viaje, n_boletas, total) VALUES (?, ?, ?, ?)`,
		userID, tripID, nBoletas, total)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicateReservation
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a reserva by id. ErrReservationNotFound when absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reserva WHERE id_reserva = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// GetForUpdateTx loads a reserva inside the caller's transaction with a
// row lock so that concurrent state transitions on the same reservation
// serialize. ErrReservationNotFound when absent.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reserva WHERE id_reserva = ? FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// UpdateSeatsTx rewrites n_boletas and total after an edit, within the
// caller's transaction.
func (r *ReservationRepo) UpdateSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, nBoletas int, total int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reserva SET n_boletas = ?, total = ? WHERE id_reserva = ?`,
		nBoletas, total, id)
	return err
}

// MarkCancelledTx clears the vigente flag within the caller's transaction.
func (r *ReservationRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reserva SET vigente = 0 WHERE id_reserva = ?`, id)
	return err
}

// MarkPaidTx records a confirmed payment within the caller's transaction.
func (r *ReservationRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, id uint64, metodoPago string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reserva SET pagado = 1, metodo_pago = ? WHERE id_reserva = ?`,
		metodoPago, id)
	return err
}

// MarkRefundedTx records a refund within the caller's transaction: payment
// is released and the refunded amount and kind are frozen on the row.
func (r *ReservationRepo) MarkRefundedTx(ctx context.Context, tx *sql.Tx, id uint64, amount int64, tipo string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reserva SET pagado = 0, reembolso = ?, tipo_reembolso = ? WHERE id_reserva = ?`,
		amount, tipo, id)
	return err
}

// ReservationDetail is a reserva joined with its trip for display to the
// booking user.
type ReservationDetail struct {
	model.Reservation
	Destino    string
	Origen     string
	Fecha      string
	HoraSalida string
}

// ListByUser returns all reservations for the given user, newest first,
// with trip details joined in. When no reservations exist an empty slice
// is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id_reserva, r.id_usuario, r.id_viaje, r.n_boletas, r.total,
	                  r.vigente, r.pagado, r.metodo_pago, r.reembolso, r.tipo_reembolso,
	                  r.created_at, r.updated_at,
	                  d.nombre, v.origen, v.fecha, v.hora_salida
	           FROM reserva r
	           JOIN viaje v ON v.id_viaje = r.id_viaje
	           JOIN destino d ON d.id_destino = v.id_destino
	           WHERE r.id_usuario = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var metodo sql.NullString
		var fecha sql.NullTime
		if err := rows.Scan(&d.ID, &d.UserID, &d.TripID, &d.NBoletas, &d.Total,
			&d.Vigente, &d.Pagado, &metodo, &d.Reembolso, &d.TipoReembolso,
			&d.CreatedAt, &d.UpdatedAt,
			&d.Destino, &d.Origen, &fecha, &d.HoraSalida); err != nil {
			return nil, err
		}
		if metodo.Valid {
			m := metodo.String
			d.MetodoPago = &m
		}
		if fecha.Valid {
			d.Fecha = fecha.Time.Format("2006-01-02")
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
