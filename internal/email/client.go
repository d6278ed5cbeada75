// Package email sends transactional mail for the booking flow. Delivery is
// best-effort: a failed send is logged by the caller and never rolls back
// the payment that triggered it.
package email

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/Straver00/Chivas-travel-api/internal/config"
	"github.com/Straver00/Chivas-travel-api/internal/queue"
)

// Client wraps an SMTP account. A zero Host disables sending; Send then
// returns an error the caller logs and drops.
type Client struct {
	cfg config.SMTPConfig
}

// NewClient returns a Client for the given SMTP account.
func NewClient(cfg config.SMTPConfig) *Client { return &Client{cfg: cfg} }

// Enabled reports whether an SMTP host is configured.
func (c *Client) Enabled() bool { return c.cfg.Host != "" }

// SendTickets emails the payer their ticket codes after a confirmed
// payment.
func (c *Client) SendTickets(ev queue.ReservationPaidEvent) error {
	if !c.Enabled() {
		return fmt.Errorf("smtp not configured")
	}

	m := mail.NewMsg()
	if err := m.From(fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail)); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(ev.Correo); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(fmt.Sprintf("Boletos confirmados - %s", ev.Destino))
	m.SetBodyString(mail.TypeTextHTML, ticketsHTML(ev))

	client, err := mail.NewClient(c.cfg.Host,
		mail.WithPort(c.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.cfg.User),
		mail.WithPassword(c.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{ServerName: c.cfg.Host}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSend(m); err != nil {
		return fmt.Errorf("send to %s: %w", ev.Correo, err)
	}
	return nil
}

func ticketsHTML(ev queue.ReservationPaidEvent) string {
	var codes strings.Builder
	for _, code := range ev.TicketCodes {
		fmt.Fprintf(&codes, `<li style="padding: 6px 0; font-family: monospace; font-size: 16px;">%s</li>`, code)
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="es">
<body style="margin: 0; padding: 20px; font-family: Arial, sans-serif; background-color: #f4f4f4;">
	<table width="600" cellpadding="0" cellspacing="0" style="margin: 0 auto; background-color: #ffffff; border-radius: 8px;">
		<tr>
			<td style="background-color: #2e7d32; padding: 30px; text-align: center;">
				<h1 style="color: #ffffff; margin: 0;">¡Pago confirmado!</h1>
			</td>
		</tr>
		<tr>
			<td style="padding: 30px;">
				<p>Hola %s,</p>
				<p>Tu pago por la excursión a <strong>%s</strong> del <strong>%s</strong>
				(salida %s) ha sido confirmado. Total: <strong>$%d COP</strong>.</p>
				<p>Presenta estos códigos al abordar la chiva:</p>
				<ul style="background-color: #f8f9fa; padding: 20px 40px; border-radius: 8px;">%s</ul>
				<p style="color: #999; font-size: 12px;">Reserva #%d. Este es un correo automático, por favor no responder.</p>
			</td>
		</tr>
	</table>
</body>
</html>`,
		ev.Nombre, ev.Destino, ev.Fecha, ev.HoraSalida, ev.Total, codes.String(), ev.ReservationID)
}
