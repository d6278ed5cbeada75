package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/middleware"
	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
	"github.com/Straver00/Chivas-travel-api/internal/service"
)

// ReservationHandler wires the reservation lifecycle to HTTP. Ownership is
// enforced here: clients act only on their own reservations, admins on any.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Tickets      *repository.TicketRepo
}

func NewReservationHandler(svc *service.ReservationService, tickets *repository.TicketRepo) *ReservationHandler {
	return &ReservationHandler{Reservations: svc, Tickets: tickets}
}

// ----- DTOs -----

type guestReq struct {
	Correo    string `json:"correo"`
	Nombre    string `json:"nombre"`
	Documento string `json:"documento"`
}

type createReservationReq struct {
	TripID uint64     `json:"id_viaje"`
	Guests []guestReq `json:"invitados"`
}

type editReservationReq struct {
	NBoletas int `json:"n_boletas"`
}

type issueTicketReq struct {
	UserID uint64 `json:"id_usuario"` // holder; defaults to the caller
}

type reservationResp struct {
	ID            uint64  `json:"id_reserva"`
	TripID        uint64  `json:"id_viaje"`
	NBoletas      int     `json:"n_boletas"`
	Total         int64   `json:"total"`
	Vigente       bool    `json:"vigente"`
	Pagado        bool    `json:"pagado"`
	MetodoPago    *string `json:"metodo_pago,omitempty"`
	Reembolso     int64   `json:"reembolso,omitempty"`
	TipoReembolso string  `json:"tipo_reembolso"`
}

type reservationDetailResp struct {
	reservationResp
	Destino    string `json:"destino"`
	Origen     string `json:"origen"`
	Fecha      string `json:"fecha"`
	HoraSalida string `json:"hora_salida"`
}

type ticketResp struct {
	Codigo     string `json:"codigo"`
	ReservaID  uint64 `json:"id_reserva"`
	FechaViaje string `json:"fecha_viaje"`
	HoraSalida string `json:"hora_salida"`
	Activo     bool   `json:"activo"`
}

func toReservationResp(r model.Reservation) reservationResp {
	return reservationResp{
		ID:            r.ID,
		TripID:        r.TripID,
		NBoletas:      r.NBoletas,
		Total:         r.Total,
		Vigente:       r.Vigente,
		Pagado:        r.Pagado,
		MetodoPago:    r.MetodoPago,
		Reembolso:     r.Reembolso,
		TipoReembolso: r.TipoReembolso,
	}
}

// Create books seats on a trip for the caller plus any named guests.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TripID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id_viaje required"})
	}

	guests := make([]service.GuestInput, 0, len(req.Guests))
	for _, g := range req.Guests {
		guests = append(guests, service.GuestInput{Correo: g.Correo, Nombre: g.Nombre, Documento: g.Documento})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Reservations.Create(ctx, middleware.CurrentUserID(c), req.TripID, guests)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id_reserva": res.ReservationID,
		"n_boletas":  res.NBoletas,
		"total":      res.Total,
		"boletos":    res.TicketCodes,
	})
}

// Edit changes the seat count of an unpaid reservation.
func (h *ReservationHandler) Edit(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	var req editReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.checkOwner(ctx, c, id); err != nil {
		return writeError(c, err)
	}
	res, err := h.Reservations.Edit(ctx, id, req.NBoletas)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(*res))
}

// Cancel releases the reservation's seats back to the trip.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.checkOwner(ctx, c, id); err != nil {
		return writeError(c, err)
	}
	if err := h.Reservations.Cancel(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}

// Get returns one reservation; the service checks owner-or-admin access.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.Get(ctx, id, middleware.CurrentUserID(c), middleware.CurrentSubtype(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toReservationResp(*res))
}

// ListMine returns the caller's reservation history, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.Reservations.ListByUser(ctx, middleware.CurrentUserID(c))
	if err != nil {
		return writeError(c, err)
	}

	out := make([]reservationDetailResp, 0, len(details))
	for _, d := range details {
		out = append(out, reservationDetailResp{
			reservationResp: toReservationResp(d.Reservation),
			Destino:         d.Destino,
			Origen:          d.Origen,
			Fecha:           d.Fecha,
			HoraSalida:      d.HoraSalida,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// IssueTicket adds one boleto to an active reservation, naming a holder for
// a seat that was added after creation. Defaults to the caller.
func (h *ReservationHandler) IssueTicket(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	var req issueTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	holder := req.UserID
	if holder == 0 {
		holder = middleware.CurrentUserID(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.checkOwner(ctx, c, id); err != nil {
		return writeError(c, err)
	}
	code, err := h.Reservations.IssueTicket(ctx, id, holder)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"codigo": code})
}

// ListMyTickets returns every ticket issued to the caller.
func (h *ReservationHandler) ListMyTickets(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tickets, err := h.Tickets.ListByUser(ctx, middleware.CurrentUserID(c))
	if err != nil {
		return writeError(c, err)
	}

	out := make([]ticketResp, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ticketResp{
			Codigo:     t.Codigo,
			ReservaID:  t.ReservaID,
			FechaViaje: t.FechaViaje.Format("2006-01-02"),
			HoraSalida: t.HoraSalida,
			Activo:     t.Activo,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// checkOwner returns ErrForbidden unless the caller owns the reservation or
// is an admin. The caller maps the result through writeError.
func (h *ReservationHandler) checkOwner(ctx context.Context, c echo.Context, reservationID uint64) error {
	if middleware.CurrentSubtype(c) == model.SubtypeAdmin {
		return nil
	}
	ok, err := h.Reservations.OwnerOf(ctx, reservationID, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrForbidden
	}
	return nil
}
