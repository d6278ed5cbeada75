package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/utils"
)

// UserRepo provides persistence for the usuario table.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id_usuario, correo, documento, nombre, contacto, eps,
       fecha_nacimiento, subtipo, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var birth sql.NullTime
	var hash sql.NullString
	err := row.Scan(&u.ID, &u.Correo, &u.Documento, &u.Nombre, &u.Contacto, &u.EPS,
		&birth, &u.Subtipo, &hash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	if birth.Valid {
		b := birth.Time
		u.FechaNacimiento = &b
	}
	if hash.Valid {
		h := hash.String
		u.PasswordHash = &h
	}
	return u, nil
}

// Create inserts a registering user (client or admin) and returns its ID.
// The password is hashed here with the given bcrypt cost. A duplicate
// correo for the same subtype yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u model.User, password string, cost int) (uint64, error) {
	correo := strings.ToLower(strings.TrimSpace(u.Correo))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var birth any
	if u.FechaNacimiento != nil {
		birth = u.FechaNacimiento.Format("2006-01-02")
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO usuario (correo, documento, nombre, contacto, eps, fecha_nacimiento, subtipo, password_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		correo, u.Documento, u.Nombre, u.Contacto, u.EPS, birth, u.Subtipo, hash)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a user by id. ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM usuario WHERE id_usuario = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetByCorreoSubtipo fetches a user by normalized email and account
// subtype. ErrUserNotFound when absent.
func (r *UserRepo) GetByCorreoSubtipo(ctx context.Context, correo, subtipo string) (model.User, error) {
	correo = strings.ToLower(strings.TrimSpace(correo))
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM usuario WHERE correo = ? AND subtipo = ? LIMIT 1`,
		correo, subtipo))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrUserNotFound
	}
	return u, err
}

// ExistsTx reports whether a usuario row exists, inside the caller's
// transaction.
func (r *UserRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM usuario WHERE id_usuario = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// FindOrCreateGuestTx resolves an invited guest to a usuario row inside the
// caller's transaction. Guests are looked up by correo+subtipo='G' first so
// that re-inviting the same person reuses the existing account; only when
// no row exists is one inserted. Guest rows carry no password hash and
// cannot log in.
func (r *UserRepo) FindOrCreateGuestTx(ctx context.Context, tx *sql.Tx, correo, nombre, documento string) (uint64, error) {
	correo = strings.ToLower(strings.TrimSpace(correo))
	var id uint64
	err := tx.QueryRowContext(ctx,
		`SELECT id_usuario FROM usuario WHERE correo = ? AND subtipo = ? LIMIT 1`,
		correo, model.SubtypeGuest).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO usuario (correo, documento, nombre, subtipo) VALUES (?, ?, ?, ?)`,
		correo, documento, nombre, model.SubtypeGuest)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(newID), nil
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry for a unique
// key) from the driver's error string.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
