package repository

import (
	"context"
	"database/sql"
)

// InviteRepo records which users a booking host has brought along on their
// reservations. The link is a plain (host, invitee) pair with no state:
// re-inviting the same person is a no-op.
type InviteRepo struct {
	db *sql.DB
}

// NewInviteRepo returns a new InviteRepo bound to the given database.
func NewInviteRepo(db *sql.DB) *InviteRepo { return &InviteRepo{db: db} }

// AddTx links an invitee to a host within the caller's transaction. The
// insert is idempotent: a pair that already exists is silently kept.
func (r *InviteRepo) AddTx(ctx context.Context, tx *sql.Tx, hostID, inviteeID uint64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT IGNORE INTO invitado (id_anfitrion, id_invitado) VALUES (?, ?)`,
		hostID, inviteeID)
	return err
}

// ListByHost returns the IDs of everyone the host has ever invited.
func (r *InviteRepo) ListByHost(ctx context.Context, hostID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id_invitado FROM invitado WHERE id_anfitrion = ? ORDER BY id_invitado`, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
