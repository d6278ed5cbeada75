package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Straver00/Chivas-travel-api/internal/model"
)

// OpinionRepo stores rider reviews of destinations.
type OpinionRepo struct {
	db *sql.DB
}

// NewOpinionRepo returns a new OpinionRepo bound to the given database.
func NewOpinionRepo(db *sql.DB) *OpinionRepo { return &OpinionRepo{db: db} }

// Create inserts an opinion and returns its generated ID.
func (r *OpinionRepo) Create(ctx context.Context, userID, destinoID uint64, calificacion int, comentario string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO opinion (id_usuario, id_destino, calificacion, comentario) VALUES (?, ?, ?, ?)`,
		userID, destinoID, calificacion, comentario)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches an opinion by id. ErrOpinionNotFound when absent.
func (r *OpinionRepo) GetByID(ctx context.Context, id uint64) (*model.Opinion, error) {
	var (
		o       model.Opinion
		comment sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id_opinion, id_usuario, id_destino, calificacion, comentario, created_at, updated_at
		 FROM opinion WHERE id_opinion = ?`, id).
		Scan(&o.ID, &o.UserID, &o.DestinoID, &o.Calificacion, &comment, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOpinionNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Comentario = comment.String
	return &o, nil
}

// OpinionDetail is an opinion with the author's display name joined in.
type OpinionDetail struct {
	model.Opinion
	Autor string
}

// ListByDestination returns the opinions for a destination, newest first.
func (r *OpinionRepo) ListByDestination(ctx context.Context, destinoID uint64) ([]OpinionDetail, error) {
	const q = `SELECT o.id_opinion, o.id_usuario, o.id_destino, o.calificacion, o.comentario,
	                  o.created_at, o.updated_at, u.nombre
	           FROM opinion o
	           JOIN usuario u ON u.id_usuario = o.id_usuario
	           WHERE o.id_destino = ?
	           ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, destinoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	opinions := make([]OpinionDetail, 0)
	for rows.Next() {
		var d OpinionDetail
		var comment sql.NullString
		if err := rows.Scan(&d.ID, &d.UserID, &d.DestinoID, &d.Calificacion,
			&comment, &d.CreatedAt, &d.UpdatedAt, &d.Autor); err != nil {
			return nil, err
		}
		d.Comentario = comment.String
		opinions = append(opinions, d)
	}
	return opinions, rows.Err()
}

// Update rewrites an opinion's rating and comment. ErrOpinionNotFound when
// the row does not exist.
func (r *OpinionRepo) Update(ctx context.Context, id uint64, calificacion int, comentario string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE opinion SET calificacion = ?, comentario = ? WHERE id_opinion = ?`,
		calificacion, comentario, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		err = r.db.QueryRowContext(ctx, `SELECT 1 FROM opinion WHERE id_opinion = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOpinionNotFound
		}
		return err
	}
	return nil
}

// Delete removes an opinion. The service layer checks ownership before
// calling. ErrOpinionNotFound when the row does not exist.
func (r *OpinionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM opinion WHERE id_opinion = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOpinionNotFound
	}
	return nil
}
