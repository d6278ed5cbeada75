package model

import "time"

// Trip represents a scheduled chiva excursion to a destination. Cupo is the
// number of seats still available and is mutated exclusively through the
// trip repository's seat-delta operation; it never drops below zero. A
// cancelled trip remains visible but accepts no new reservations.
//
// Fields:
//  ID          – primary key identifier.
//  DestinoID   – destination being visited.
//  Origen      – departure city.
//  Fecha       – date of the excursion.
//  HoraSalida  – departure time (HH:MM:SS).
//  HoraRegreso – return time (HH:MM:SS).
//  Cupo        – seats still available.
//  Precio      – ticket price in COP.
//  Comidas     – whether meals are included.
//  Cancelado   – whether the trip has been called off.
type Trip struct {
	ID          uint64    // viaje.id_viaje
	DestinoID   uint64    // viaje.id_destino
	Destino     string    // destino.nombre, populated on reads that join
	Origen      string    // viaje.origen
	Fecha       time.Time // viaje.fecha
	HoraSalida  string    // viaje.hora_salida
	HoraRegreso string    // viaje.hora_regreso
	Cupo        int       // viaje.cupo
	Precio      int64     // viaje.precio
	Comidas     bool      // viaje.comidas
	Cancelado   bool      // viaje.cancelado
	CreatedAt   time.Time // viaje.created_at
	UpdatedAt   time.Time // viaje.updated_at
}
