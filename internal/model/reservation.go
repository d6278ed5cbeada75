package model

import "time"

// Refund types stored in reserva.tipo_reembolso. A refund is total when the
// trip is still three or more days away and partial (half the total)
// otherwise.
const (
	RefundNone    = "ninguno"
	RefundPartial = "parcial"
	RefundTotal   = "total"
)

// Reservation records a user's booking of seats on a trip. NBoletas counts
// every seat holder: the booker plus each invited guest. Total is always
// NBoletas times the trip price at the moment of creation or edit.
//
// Lifecycle: created vigente+unpaid; editable and cancellable only while
// vigente and unpaid; Pagado flips on payment confirmation; a refund flips
// Pagado back and records the amount exactly once.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – user who made the reservation.
//  TripID        – trip being reserved.
//  NBoletas      – number of seats held (> 0).
//  Total         – total amount due in COP.
//  Vigente       – false once cancelled.
//  Pagado        – true while payment is held.
//  MetodoPago    – payment method recorded on confirmation.
//  Reembolso     – refunded amount in COP, 0 when none.
//  TipoReembolso – ninguno, parcial or total.
type Reservation struct {
	ID            uint64    // reserva.id_reserva
	UserID        uint64    // reserva.id_usuario
	TripID        uint64    // reserva.id_viaje
	NBoletas      int       // reserva.n_boletas
	Total         int64     // reserva.total
	Vigente       bool      // reserva.vigente
	Pagado        bool      // reserva.pagado
	MetodoPago    *string   // reserva.metodo_pago (nullable)
	Reembolso     int64     // reserva.reembolso
	TipoReembolso string    // reserva.tipo_reembolso
	CreatedAt     time.Time // reserva.created_at
	UpdatedAt     time.Time // reserva.updated_at
}
