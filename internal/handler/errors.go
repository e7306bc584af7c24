package handler

import (
	"errors"
	"net/http"

	"docvault/internal/domain"
	"docvault/internal/httputil"
)

// handleError maps domain errors to HTTP responses. Every rejection carries
// a stable status plus the error's message as the human-readable detail.
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		httputil.RespondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrVisibilityNotAllowed):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailExists):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrTypeNotAllowed):
		httputil.RespondError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
