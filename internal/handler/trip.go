package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
)

// TripHandler serves the trip catalog: public browsing and the admin CRUD.
type TripHandler struct {
	Trips        *repository.TripRepo
	Destinations *repository.DestinationRepo
}

func NewTripHandler(trips *repository.TripRepo, dests *repository.DestinationRepo) *TripHandler {
	return &TripHandler{Trips: trips, Destinations: dests}
}

type tripReq struct {
	DestinoID   uint64 `json:"id_destino"`
	Origen      string `json:"origen"`
	Fecha       string `json:"fecha"` // YYYY-MM-DD
	HoraSalida  string `json:"hora_salida"`
	HoraRegreso string `json:"hora_regreso"`
	Cupo        int    `json:"cupo"`
	Precio      int64  `json:"precio"`
	Comidas     bool   `json:"comidas"`
}

type tripResp struct {
	ID          uint64 `json:"id_viaje"`
	DestinoID   uint64 `json:"id_destino"`
	Destino     string `json:"destino"`
	Origen      string `json:"origen"`
	Fecha       string `json:"fecha"`
	HoraSalida  string `json:"hora_salida"`
	HoraRegreso string `json:"hora_regreso"`
	Cupo        int    `json:"cupo"`
	Precio      int64  `json:"precio"`
	Comidas     bool   `json:"comidas"`
	Cancelado   bool   `json:"cancelado"`
}

func toTripResp(t model.Trip) tripResp {
	return tripResp{
		ID:          t.ID,
		DestinoID:   t.DestinoID,
		Destino:     t.Destino,
		Origen:      t.Origen,
		Fecha:       t.Fecha.Format("2006-01-02"),
		HoraSalida:  t.HoraSalida,
		HoraRegreso: t.HoraRegreso,
		Cupo:        t.Cupo,
		Precio:      t.Precio,
		Comidas:     t.Comidas,
		Cancelado:   t.Cancelado,
	}
}

// parse binds and validates the shared trip payload, writing the 400 itself
// on rejection.
func (h *TripHandler) parse(c echo.Context) (*tripReq, time.Time, bool) {
	var req tripReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		return nil, time.Time{}, false
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "fecha must be YYYY-MM-DD"})
		return nil, time.Time{}, false
	}
	if strings.TrimSpace(req.Origen) == "" || req.HoraSalida == "" || req.HoraRegreso == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "origen/hora_salida/hora_regreso required"})
		return nil, time.Time{}, false
	}
	if req.Precio <= 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "precio must be positive"})
		return nil, time.Time{}, false
	}
	return &req, fecha, true
}

// Create registers a new trip (admin only). The destination must already
// exist; cupo is the chiva's full seat count.
func (h *TripHandler) Create(c echo.Context) error {
	req, fecha, ok := h.parse(c)
	if !ok {
		return nil
	}
	if req.Cupo <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cupo must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Destinations.GetByID(ctx, req.DestinoID); err != nil {
		return writeError(c, err)
	}

	id, err := h.Trips.Create(ctx, &model.Trip{
		DestinoID:   req.DestinoID,
		Origen:      req.Origen,
		Fecha:       fecha,
		HoraSalida:  req.HoraSalida,
		HoraRegreso: req.HoraRegreso,
		Cupo:        req.Cupo,
		Precio:      req.Precio,
		Comidas:     req.Comidas,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id_viaje": id})
}

// Update edits a trip's schedule and pricing (admin only). Cupo is not
// editable here: available seats move only through reservations.
func (h *TripHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	req, fecha, ok := h.parse(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Trips.UpdateSchedule(ctx, id, req.Origen, fecha, req.HoraSalida, req.HoraRegreso, req.Precio, req.Comidas); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "trip updated"})
}

// Cancel calls a trip off (admin only). Existing reservations keep their
// seats; refunds are handled per reservation.
func (h *TripHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Trips.Cancel(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "trip cancelled"})
}

// List returns the full catalog, optionally filtered by ?destino=name
// fragment.
func (h *TripHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		trips []model.Trip
		err   error
	)
	if q := strings.TrimSpace(c.QueryParam("destino")); q != "" {
		trips, err = h.Trips.SearchByDestination(ctx, q)
	} else {
		trips, err = h.Trips.List(ctx)
	}
	if err != nil {
		return writeError(c, err)
	}

	out := make([]tripResp, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one trip by id.
func (h *TripHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Trips.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTripResp(*t))
}

// pathID parses a numeric path parameter. On garbage it writes the 400
// itself and reports ok=false; the handler just returns nil.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
