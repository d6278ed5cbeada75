package model

import "time"

// Destination is a place the chiva travels to. Destinations are created by
// administrators and referenced by trips and opinions.
type Destination struct {
	ID          uint64    // destino.id_destino
	Nombre      string    // destino.nombre
	Descripcion string    // destino.descripcion
	CreadoPor   *uint64   // destino.creado_por (nullable, admin who registered it)
	CreatedAt   time.Time // destino.created_at
}
