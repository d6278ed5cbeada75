package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/service"
)

// PaymentHandler exposes the admin-side money operations: confirming a
// payment received out of band and issuing refunds.
type PaymentHandler struct {
	Payments *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: svc}
}

type confirmPaymentReq struct {
	MetodoPago string `json:"metodo_pago"`
}

// Confirm marks a reservation as paid and activates its tickets.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	var req confirmPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.MetodoPago) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "metodo_pago required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Payments.Confirm(ctx, id, req.MetodoPago); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "payment confirmed"})
}

// Refund reverses a paid reservation. The amount depends on how close the
// trip is: inside three days only half comes back.
func (h *PaymentHandler) Refund(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	amount, tipo, err := h.Payments.Refund(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reembolso":      amount,
		"tipo_reembolso": tipo,
	})
}
