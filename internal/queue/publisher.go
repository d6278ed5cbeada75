package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes booking events to RabbitMQ. Each publish dials a
// fresh connection; the event volume here is one message per confirmed
// payment, so connection reuse buys nothing and a dead broker never leaves
// a bad cached channel behind. Errors are returned so callers can log
// them, but a publish failure must never fail the payment that triggered
// it.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher that dials the given AMQP URL.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// PublishReservationPaid sends a ReservationPaidEvent to the reserva.pagada
// queue. The queue is declared durable and messages are persistent so a
// broker restart loses nothing.
func (p *Publisher) PublishReservationPaid(ctx context.Context, event ReservationPaidEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		KeyReservationPaid, // name
		true,               // durable
		false,              // autoDelete
		false,              // exclusive
		false,              // noWait
		nil,                // args
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                 // default exchange
		KeyReservationPaid, // routing key = queue name
		false,              // mandatory
		false,              // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
