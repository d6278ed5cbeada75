package model

import "time"

// Account subtypes stored in usuario.subtipo. Clients register themselves,
// guests are provisioned implicitly when named on a reservation, and admins
// manage the trip catalog.
const (
	SubtypeClient = "C"
	SubtypeGuest  = "G"
	SubtypeAdmin  = "A"
)

// User mirrors the 'usuario' table. The same correo may exist once per
// subtype (a person can be someone's invited guest and later register as a
// client with the same address). PasswordHash is nil for guest accounts,
// which cannot log in.
//
// Fields:
//  ID              – primary key identifier.
//  Correo          – email address, unique per subtype.
//  Documento       – national document id.
//  Nombre          – full name.
//  Contacto        – contact phone number.
//  EPS             – health provider, captured at registration.
//  FechaNacimiento – birthdate, used for the adult check.
//  Subtipo         – account subtype (C, G or A).
//  PasswordHash    – bcrypt hash; nil for guests.
type User struct {
	ID              uint64     // usuario.id_usuario
	Correo          string     // usuario.correo
	Documento       string     // usuario.documento
	Nombre          string     // usuario.nombre
	Contacto        string     // usuario.contacto
	EPS             string     // usuario.eps
	FechaNacimiento *time.Time // usuario.fecha_nacimiento (nullable)
	Subtipo         string     // usuario.subtipo
	PasswordHash    *string    // usuario.password_hash (nullable)
	CreatedAt       time.Time  // usuario.created_at
	UpdatedAt       time.Time  // usuario.updated_at
}
