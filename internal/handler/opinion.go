package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/middleware"
	"github.com/Straver00/Chivas-travel-api/internal/model"
	"github.com/Straver00/Chivas-travel-api/internal/repository"
	"github.com/Straver00/Chivas-travel-api/internal/validation"
)

// OpinionHandler manages destination reviews. Anyone can read them; writing
// requires a session, and edits are owner-or-admin.
type OpinionHandler struct {
	Opinions *repository.OpinionRepo
}

func NewOpinionHandler(opinions *repository.OpinionRepo) *OpinionHandler {
	return &OpinionHandler{Opinions: opinions}
}

type opinionReq struct {
	DestinoID    uint64 `json:"id_destino"`
	Calificacion int    `json:"calificacion"`
	Comentario   string `json:"comentario"`
}

type opinionResp struct {
	ID           uint64 `json:"id_opinion"`
	DestinoID    uint64 `json:"id_destino"`
	Autor        string `json:"autor,omitempty"`
	Calificacion int    `json:"calificacion"`
	Comentario   string `json:"comentario"`
	CreatedAt    string `json:"created_at"`
}

func (h *OpinionHandler) Create(c echo.Context) error {
	var req opinionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DestinoID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id_destino required"})
	}
	if err := validation.Calificacion(req.Calificacion); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Opinions.Create(ctx, middleware.CurrentUserID(c), req.DestinoID, req.Calificacion, req.Comentario)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id_opinion": id})
}

// ListByDestination returns every review for a destination, author names
// included.
func (h *OpinionHandler) ListByDestination(c echo.Context) error {
	destinoID, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	opinions, err := h.Opinions.ListByDestination(ctx, destinoID)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]opinionResp, 0, len(opinions))
	for _, o := range opinions {
		out = append(out, opinionResp{
			ID:           o.ID,
			DestinoID:    o.DestinoID,
			Autor:        o.Autor,
			Calificacion: o.Calificacion,
			Comentario:   o.Comentario,
			CreatedAt:    o.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OpinionHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	var req opinionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validation.Calificacion(req.Calificacion); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.checkAuthor(ctx, c, id); err != nil {
		return writeError(c, err)
	}
	if err := h.Opinions.Update(ctx, id, req.Calificacion, req.Comentario); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "opinion updated"})
}

func (h *OpinionHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.checkAuthor(ctx, c, id); err != nil {
		return writeError(c, err)
	}
	if err := h.Opinions.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "opinion deleted"})
}

// checkAuthor returns ErrForbidden unless the caller wrote the opinion or
// is an admin. The caller maps the result through writeError.
func (h *OpinionHandler) checkAuthor(ctx context.Context, c echo.Context, opinionID uint64) error {
	if middleware.CurrentSubtype(c) == model.SubtypeAdmin {
		return nil
	}
	o, err := h.Opinions.GetByID(ctx, opinionID)
	if err != nil {
		return err
	}
	if o.UserID != middleware.CurrentUserID(c) {
		return repository.ErrForbidden
	}
	return nil
}
