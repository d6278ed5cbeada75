package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Straver00/Chivas-travel-api/internal/model"
)

// TripRepo provides persistence for viajes and owns the seat ledger: every
// change to a trip's cupo goes through ApplySeatDeltaTx so that the
// invariant cupo >= 0 holds under concurrent reservations.
type TripRepo struct {
	db *sql.DB
}

// NewTripRepo returns a new TripRepo bound to the given database.
func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

const tripColumns = `v.id_viaje, v.id_destino, d.nombre, v.origen, v.fecha,
       v.hora_salida, v.hora_regreso, v.cupo, v.precio, v.comidas, v.cancelado,
       v.created_at, v.updated_at`

func scanTrip(row interface{ Scan(...any) error }) (*model.Trip, error) {
	var t model.Trip
	err := row.Scan(
		&t.ID, &t.DestinoID, &t.Destino, &t.Origen, &t.Fecha,
		&t.HoraSalida, &t.HoraRegreso, &t.Cupo, &t.Precio, &t.Comidas, &t.Cancelado,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new viaje and returns its generated ID. The initial cupo
// is the chiva's full seat count; reservations will draw it down.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO viaje (id_destino, origen, fecha, hora_salida, hora_regreso, cupo, precio, comidas)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.DestinoID, t.Origen, t.Fecha.Format("2006-01-02"), t.HoraSalida, t.HoraRegreso,
		t.Cupo, t.Precio, t.Comidas)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns a single trip with its destination name joined in. It
// returns ErrTripNotFound when no such viaje exists.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (*model.Trip, error) {
	const q = `SELECT ` + tripColumns + `
	           FROM viaje v JOIN destino d ON d.id_destino = v.id_destino
	           WHERE v.id_viaje = ?`
	t, err := scanTrip(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	return t, err
}

// GetForUpdateTx loads a trip inside the caller's transaction with a row
// lock, serializing reservation work per trip. ErrTripNotFound when absent.
func (r *TripRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Trip, error) {
	const q = `SELECT ` + tripColumns + `
	           FROM viaje v JOIN destino d ON d.id_destino = v.id_destino
	           WHERE v.id_viaje = ? FOR UPDATE`
	t, err := scanTrip(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTripNotFound
	}
	return t, err
}

// ApplySeatDeltaTx adjusts a trip's available seats inside the caller's
// transaction. A positive delta consumes seats, a negative delta releases
// them, zero is a no-op. Consumption is a conditional update that only
// writes the row when enough seats remain, so two transactions racing for
// the last seats cannot both succeed; the loser gets ErrCapacityExceeded.
// The operation is not idempotent: callers apply it at most once per state
// transition and rely on the transaction for all-or-nothing behavior.
func (r *TripRepo) ApplySeatDeltaTx(ctx context.Context, tx *sql.Tx, tripID uint64, delta int) error {
	if delta == 0 {
		return nil
	}
	if delta < 0 {
		_, err := tx.ExecContext(ctx,
			`UPDATE viaje SET cupo = cupo + ? WHERE id_viaje = ?`, -delta, tripID)
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE viaje SET cupo = cupo - ? WHERE id_viaje = ? AND cupo >= ?`,
		delta, tripID, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the trip is gone or the guard failed; probe to tell apart.
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM viaje WHERE id_viaje = ?`, tripID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTripNotFound
			}
			return err
		}
		return ErrCapacityExceeded
	}
	return nil
}

// List returns all trips ordered by date, soonest first. Cancelled trips
// are included so clients can show them struck through.
func (r *TripRepo) List(ctx context.Context) ([]model.Trip, error) {
	const q = `SELECT ` + tripColumns + `
	           FROM viaje v JOIN destino d ON d.id_destino = v.id_destino
	           ORDER BY v.fecha, v.hora_salida`
	return r.queryTrips(ctx, q)
}

// SearchByDestination returns trips whose destination name contains the
// given fragment, case-insensitively per MySQL collation.
func (r *TripRepo) SearchByDestination(ctx context.Context, name string) ([]model.Trip, error) {
	const q = `SELECT ` + tripColumns + `
	           FROM viaje v JOIN destino d ON d.id_destino = v.id_destino
	           WHERE d.nombre LIKE CONCAT('%', ?, '%')
	           ORDER BY v.fecha, v.hora_salida`
	return r.queryTrips(ctx, q, name)
}

func (r *TripRepo) queryTrips(ctx context.Context, q string, args ...any) ([]model.Trip, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	trips := make([]model.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

// UpdateSchedule edits a trip's itinerary and pricing. Capacity is not
// touched here; cupo moves only through ApplySeatDeltaTx. Boletos already
// issued keep their frozen fecha/hora snapshot. ErrTripNotFound when the
// viaje does not exist.
func (r *TripRepo) UpdateSchedule(ctx context.Context, id uint64, origen string, fecha time.Time, horaSalida, horaRegreso string, precio int64, comidas bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE viaje SET origen = ?, fecha = ?, hora_salida = ?, hora_regreso = ?, precio = ?, comidas = ?
		 WHERE id_viaje = ?`,
		origen, fecha.Format("2006-01-02"), horaSalida, horaRegreso, precio, comidas, id)
	if err != nil {
		return err
	}
	return mustAffectTrip(ctx, r.db, res, id)
}

// Cancel marks a trip as called off. Existing reservations stay untouched
// (refunds run per reservation); new reservations are rejected.
func (r *TripRepo) Cancel(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE viaje SET cancelado = 1 WHERE id_viaje = ?`, id)
	if err != nil {
		return err
	}
	return mustAffectTrip(ctx, r.db, res, id)
}

// mustAffectTrip distinguishes "row missing" from "row unchanged" after an
// UPDATE: MySQL reports zero affected rows for both.
func mustAffectTrip(ctx context.Context, db *sql.DB, res sql.Result, id uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists int
	if err := db.QueryRowContext(ctx, `SELECT 1 FROM viaje WHERE id_viaje = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTripNotFound
		}
		return err
	}
	return nil
}
