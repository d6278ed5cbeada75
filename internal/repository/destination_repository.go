package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Straver00/Chivas-travel-api/internal/model"
)

// DestinationRepo provides CRUD for destinos, the catalog of places trips
// depart to.
type DestinationRepo struct {
	db *sql.DB
}

// NewDestinationRepo returns a new DestinationRepo bound to the given
// database.
func NewDestinationRepo(db *sql.DB) *DestinationRepo { return &DestinationRepo{db: db} }

// Create inserts a destino and returns its generated ID.
func (r *DestinationRepo) Create(ctx context.Context, nombre, descripcion string, creadoPor uint64) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO destino (nombre, descripcion, creado_por) VALUES (?, ?, ?)`,
		nombre, descripcion, creadoPor)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a destino by id. ErrDestinationNotFound when absent.
func (r *DestinationRepo) GetByID(ctx context.Context, id uint64) (*model.Destination, error) {
	d, err := scanDestination(r.db.QueryRowContext(ctx,
		`SELECT id_destino, nombre, descripcion, creado_por, created_at FROM destino WHERE id_destino = ?`,
		id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDestinationNotFound
	}
	return d, err
}

func scanDestination(row interface{ Scan(...any) error }) (*model.Destination, error) {
	var (
		d         model.Destination
		desc      sql.NullString
		creadoPor sql.NullInt64
	)
	if err := row.Scan(&d.ID, &d.Nombre, &desc, &creadoPor, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Descripcion = desc.String
	if creadoPor.Valid {
		id := uint64(creadoPor.Int64)
		d.CreadoPor = &id
	}
	return &d, nil
}

// List returns every destino ordered by name.
func (r *DestinationRepo) List(ctx context.Context) ([]model.Destination, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id_destino, nombre, descripcion, creado_por, created_at FROM destino ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dests := make([]model.Destination, 0)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		dests = append(dests, *d)
	}
	return dests, rows.Err()
}

// Update rewrites a destino's name and description. ErrDestinationNotFound
// when the row does not exist.
func (r *DestinationRepo) Update(ctx context.Context, id uint64, nombre, descripcion string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE destino SET nombre = ?, descripcion = ? WHERE id_destino = ?`,
		nombre, descripcion, id)
	if err != nil {
		return err
	}
	return r.mustExist(ctx, res, id)
}

// Delete removes a destino. Trips referencing it keep it alive through the
// foreign key, in which case the driver error surfaces to the caller.
func (r *DestinationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM destino WHERE id_destino = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDestinationNotFound
	}
	return nil
}

func (r *DestinationRepo) mustExist(ctx context.Context, res sql.Result, id uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM destino WHERE id_destino = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDestinationNotFound
	}
	return err
}
