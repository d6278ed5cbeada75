// Package validation holds the field rules applied to registration and
// reservation input before it reaches the database. Each rule returns a
// descriptive error suitable for surfacing in a 400 response.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"time"
	"unicode"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚÑáéíóúñ\s]+$`)
	phoneRe = regexp.MustCompile(`^\d+$`)
	docRe   = regexp.MustCompile(`^\d+$`)
)

// Correo validates an email address.
func Correo(correo string) error {
	if _, err := mail.ParseAddress(correo); err != nil {
		return errors.New("el correo electrónico no es válido")
	}
	return nil
}

// Documento validates a national document id: digits only, at least 4.
func Documento(doc string) error {
	if len(doc) < 4 {
		return errors.New("el documento debe tener al menos 4 caracteres")
	}
	if !docRe.MatchString(doc) {
		return errors.New("el documento debe contener solo dígitos")
	}
	return nil
}

// FullName validates a person's name: letters and spaces, at least 2 runes.
func FullName(name string) error {
	if len([]rune(name)) < 2 {
		return errors.New("el nombre completo debe tener al menos 2 caracteres")
	}
	if !nameRe.MatchString(name) {
		return errors.New("el nombre solo debe contener letras y espacios")
	}
	return nil
}

// Phone validates a contact number: digits only, at least 7.
func Phone(phone string) error {
	if len(phone) < 7 {
		return errors.New("el número de teléfono debe tener al menos 7 caracteres")
	}
	if !phoneRe.MatchString(phone) {
		return errors.New("el número de teléfono debe contener solo dígitos")
	}
	return nil
}

// MayorDeEdad parses a YYYY-MM-DD birthdate and checks the person is at
// least 18 years old today. On success it returns the parsed date.
func MayorDeEdad(fechaNacimiento string) (time.Time, error) {
	birth, err := time.Parse("2006-01-02", fechaNacimiento)
	if err != nil {
		return time.Time{}, errors.New("la fecha de nacimiento debe estar en el formato YYYY-MM-DD")
	}
	if age(birth, time.Now()) < 18 {
		return time.Time{}, errors.New("el usuario debe ser mayor de edad")
	}
	return birth, nil
}

func age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// Password enforces the account password policy: 8 to 100 characters with
// at least one uppercase letter, one lowercase letter, one digit and one
// special character.
func Password(password string) error {
	n := len([]rune(password))
	if n < 8 {
		return errors.New("la contraseña debe tener al menos 8 caracteres")
	}
	if n > 100 {
		return errors.New("la contraseña no puede tener más de 100 caracteres")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	switch {
	case !upper:
		return errors.New("la contraseña debe contener al menos una letra mayúscula")
	case !lower:
		return errors.New("la contraseña debe contener al menos una letra minúscula")
	case !digit:
		return errors.New("la contraseña debe contener al menos un número")
	case !special:
		return errors.New("la contraseña debe contener al menos un carácter especial")
	}
	return nil
}

// SeatCount validates the number of seats requested on a reservation.
func SeatCount(n int) error {
	if n < 1 {
		return errors.New("la reserva debe incluir al menos una boleta")
	}
	return nil
}

// Calificacion validates an opinion rating.
func Calificacion(n int) error {
	if n < 1 || n > 5 {
		return fmt.Errorf("la calificación debe estar entre 1 y 5, recibido %d", n)
	}
	return nil
}
