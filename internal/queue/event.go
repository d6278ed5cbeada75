package queue

import "time"

// KeyReservationPaid is the queue (and routing key) for payment
// confirmation events.
const KeyReservationPaid = "reserva.pagada"

// ReservationPaidEvent is published after a payment confirmation commits.
// The consumer emails the ticket codes to the payer; everything it needs is
// in the event so it never queries the database.
type ReservationPaidEvent struct {
	ReservationID uint64    `json:"reservation_id"`
	TripID        uint64    `json:"trip_id"`
	Correo        string    `json:"correo"`
	Nombre        string    `json:"nombre"`
	Destino       string    `json:"destino"`
	Fecha         string    `json:"fecha"`
	HoraSalida    string    `json:"hora_salida"`
	Total         int64     `json:"total"`
	TicketCodes   []string  `json:"ticket_codes"`
	PaidAt        time.Time `json:"paid_at"`
}
