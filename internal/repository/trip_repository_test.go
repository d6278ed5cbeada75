package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTripRepo(t *testing.T) (*TripRepo, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTripRepo(db), db, mock
}

func beginTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) *sql.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return tx
}

func TestApplySeatDeltaConsumesSeats(t *testing.T) {
	repo, db, mock := newTripRepo(t)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(`UPDATE viaje SET cupo = cupo - \? WHERE id_viaje = \? AND cupo >= \?`).
		WithArgs(3, uint64(7), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ApplySeatDeltaTx(context.Background(), tx, 7, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySeatDeltaInsufficientSeats(t *testing.T) {
	repo, db, mock := newTripRepo(t)
	tx := beginTx(t, db, mock)

	// The guard rejects the update; the probe still finds the trip.
	mock.ExpectExec(`UPDATE viaje SET cupo = cupo - \?`).
		WithArgs(5, uint64(7), 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM viaje WHERE id_viaje = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	err := repo.ApplySeatDeltaTx(context.Background(), tx, 7, 5)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySeatDeltaMissingTrip(t *testing.T) {
	repo, db, mock := newTripRepo(t)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(`UPDATE viaje SET cupo = cupo - \?`).
		WithArgs(2, uint64(99), 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM viaje WHERE id_viaje = \?`).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := repo.ApplySeatDeltaTx(context.Background(), tx, 99, 2)
	assert.ErrorIs(t, err, ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySeatDeltaReleasesSeats(t *testing.T) {
	repo, db, mock := newTripRepo(t)
	tx := beginTx(t, db, mock)

	// Release is unconditional and never probes.
	mock.ExpectExec(`UPDATE viaje SET cupo = cupo \+ \? WHERE id_viaje = \?`).
		WithArgs(4, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ApplySeatDeltaTx(context.Background(), tx, 7, -4)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySeatDeltaZeroIsNoOp(t *testing.T) {
	repo, db, mock := newTripRepo(t)
	tx := beginTx(t, db, mock)

	err := repo.ApplySeatDeltaTx(context.Background(), tx, 7, 0)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
