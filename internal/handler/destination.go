package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/middleware"
	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
)

// DestinationHandler exposes the destination catalog.
type DestinationHandler struct {
	Destinations *repository.DestinationRepo
}

func NewDestinationHandler(dests *repository.DestinationRepo) *DestinationHandler {
	return &DestinationHandler{Destinations: dests}
}

type destinationReq struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

type destinationResp struct {
	ID          uint64 `json:"id_destino"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

func toDestinationResp(d model.Destination) destinationResp {
	return destinationResp{ID: d.ID, Nombre: d.Nombre, Descripcion: d.Descripcion}
}

func (h *DestinationHandler) Create(c echo.Context) error {
	var req destinationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Nombre) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nombre required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Destinations.Create(ctx, req.Nombre, req.Descripcion, middleware.CurrentUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id_destino": id})
}

func (h *DestinationHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	var req destinationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Nombre) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nombre required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Destinations.Update(ctx, id, req.Nombre, req.Descripcion); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "destination updated"})
}

func (h *DestinationHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Destinations.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "destination deleted"})
}

func (h *DestinationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dests, err := h.Destinations.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]destinationResp, 0, len(dests))
	for _, d := range dests {
		out = append(out, toDestinationResp(d))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DestinationHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Destinations.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toDestinationResp(*d))
}
