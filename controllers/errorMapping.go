package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/Kapeta-16/DevOpsPraktikum/helper"
	"github.com/Kapeta-16/DevOpsPraktikum/services"
)

// writeServiceError maps the service error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is a server error; the detail is logged, not
// leaked.
func writeServiceError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, services.ErrMissingData),
		errors.Is(err, services.ErrMissingStatus),
		errors.Is(err, services.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, services.ErrWrongPassword):
		status = http.StatusUnauthorized
	default:
		log.Printf("ERROR request failed: %v", err)
		helper.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	helper.RespondError(w, status, err.Error())
}
