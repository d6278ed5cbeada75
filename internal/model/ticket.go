package model

import "time"

// Ticket is one seat holder's boleto for a reservation. The trip's date and
// departure time are copied onto the row at issuance so that later edits to
// the trip schedule do not retroactively alter tickets already in
// circulation. Tickets are append-only; the only mutation after issuance is
// the Activo flag, cleared when the parent reservation is cancelled or
// refunded.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – seat holder (booker or guest).
//  ReservaID  – owning reservation.
//  Codigo     – opaque code printed on the ticket (UUID).
//  FechaViaje – trip date frozen at issuance.
//  HoraSalida – departure time frozen at issuance.
//  Activo     – whether the ticket is still valid.
type Ticket struct {
	ID         uint64    // boleto.id_boleto
	UserID     uint64    // boleto.id_usuario
	ReservaID  uint64    // boleto.id_reserva
	Codigo     string    // boleto.codigo
	FechaViaje time.Time // boleto.fecha_viaje
	HoraSalida string    // boleto.hora_salida
	Activo     bool      // boleto.activo
	CreatedAt  time.Time // boleto.created_at
}
