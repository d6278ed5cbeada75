package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Straver00/Chivas-travel-api/internal/repository"
	"github.com/Straver00/Chivas-travel-api/internal/service"
)

// writeError maps core error kinds to HTTP responses: absent references to
// 404, state conflicts (capacity, duplicates, lifecycle gates) to 409,
// validation rejections to 400, ownership failures to 403. Anything
// unrecognized is a 500 with a generic message; details stay in the logs.
func writeError(c echo.Context, err error) error {
	var verr service.ErrValidation
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Reason})
	}

	switch {
	case errors.Is(err, repository.ErrTripNotFound),
		errors.Is(err, repository.ErrReservationNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrDestinationNotFound),
		errors.Is(err, repository.ErrOpinionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrCapacityExceeded),
		errors.Is(err, repository.ErrDuplicateReservation),
		errors.Is(err, repository.ErrTripNotActive),
		errors.Is(err, repository.ErrAlreadyCancelled),
		errors.Is(err, repository.ErrAlreadyPaid),
		errors.Is(err, repository.ErrNotActive),
		errors.Is(err, repository.ErrNotPaid),
		errors.Is(err, repository.ErrAlreadyRefunded),
		errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
