// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to HTTP status codes: absence errors become 404, state-conflict
// errors become 409, ErrForbidden becomes 403.
package repository

import "errors"

// ErrTripNotFound is returned when a referenced viaje row does not exist.
var ErrTripNotFound = errors.New("trip not found")

// ErrReservationNotFound is returned when a referenced reserva row does
// not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrUserNotFound is returned when a referenced usuario row does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrDestinationNotFound is returned when a referenced destino row does
// not exist.
var ErrDestinationNotFound = errors.New("destination not found")

// ErrOpinionNotFound is returned when a referenced opinion row does not
// exist.
var ErrOpinionNotFound = errors.New("opinion not found")

// ErrCapacityExceeded is returned by the seat ledger when consuming the
// requested seats would drive a trip's cupo below zero. The conditional
// update that produces it is also what serializes concurrent reservations
// against the same trip: of two requests racing for the last seats,
// exactly one observes the guard failing.
var ErrCapacityExceeded = errors.New("trip capacity exceeded")

// ErrDuplicateReservation is returned when a user already holds a
// reservation for a trip, in any state. One reservation per user per trip.
var ErrDuplicateReservation = errors.New("user already has a reservation for this trip")

// ErrTripNotActive is returned when a cancelled trip is named on a new
// reservation.
var ErrTripNotActive = errors.New("trip is cancelled")

// ErrAlreadyCancelled is returned when an operation requires a vigente
// reservation but it has already been cancelled.
var ErrAlreadyCancelled = errors.New("reservation already cancelled")

// ErrAlreadyPaid is returned when confirming payment on a reservation that
// is already paid, or cancelling one whose payment must be refunded first.
var ErrAlreadyPaid = errors.New("reservation already paid")

// ErrNotActive is returned when a payment operation targets a cancelled
// reservation.
var ErrNotActive = errors.New("reservation not active")

// ErrNotPaid is returned when refunding a reservation that holds no
// payment.
var ErrNotPaid = errors.New("reservation not paid")

// ErrAlreadyRefunded is returned when a reservation has been refunded
// before; refunds happen exactly once.
var ErrAlreadyRefunded = errors.New("reservation already refunded")

// ErrEmailExists is returned when registering an account whose correo is
// already taken for the same subtype.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")
