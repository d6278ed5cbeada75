package model

import "time"

// Opinion is a user's review of a destination. Opinions are owned by their
// author and independent of reservations: anyone with an account can review
// any destination.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – review author.
//  DestinoID    – destination being reviewed.
//  Calificacion – rating from 1 to 5.
//  Comentario   – free-form comment.
type Opinion struct {
	ID           uint64    // opinion.id_opinion
	UserID       uint64    // opinion.id_usuario
	DestinoID    uint64    // opinion.id_destino
	Calificacion int       // opinion.calificacion
	Comentario   string    // opinion.comentario
	CreatedAt    time.Time // opinion.created_at
	UpdatedAt    time.Time // opinion.updated_at
}
