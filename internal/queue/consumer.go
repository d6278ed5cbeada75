package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// TicketSender delivers ticket codes to the payer; implemented by the email
// client.
type TicketSender interface {
	Enabled() bool
	SendTickets(ev ReservationPaidEvent) error
}

// StartReservationPaidConsumer connects to RabbitMQ and consumes
// reserva.pagada events, emailing ticket codes for each one. It runs a
// reconnect loop with exponential backoff and never returns under normal
// operation; run it in its own goroutine. Messages that cannot be processed
// are rejected without requeue so a poison message cannot wedge the queue.
func StartReservationPaidConsumer(url string, sender TicketSender) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			slog.Warn("paid-consumer: dial failed", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, sender); err != nil {
			slog.Warn("paid-consumer: consume loop ended, reconnecting", "error", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, sender TicketSender) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		slog.Warn("paid-consumer: set QoS failed", "error", err)
	}

	if _, err := ch.QueueDeclare(KeyReservationPaid, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(KeyReservationPaid, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, sender); err != nil {
			slog.Error("paid-consumer: handle message failed", "error", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, sender TicketSender) error {
	var ev ReservationPaidEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if !sender.Enabled() {
		slog.Info("paid-consumer: smtp disabled, dropping ticket mail",
			"reservation_id", ev.ReservationID, "correo", ev.Correo)
		return nil
	}
	if err := sender.SendTickets(ev); err != nil {
		return fmt.Errorf("send tickets for reservation %d: %w", ev.ReservationID, err)
	}
	slog.Info("paid-consumer: tickets sent",
		"reservation_id", ev.ReservationID, "correo", ev.Correo, "codes", len(ev.TicketCodes))
	return nil
}
