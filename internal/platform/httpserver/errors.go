package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	authtransport "boxoffice/contexts/ordering/offer-authorization/transport/http"
)

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domainerrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyInUse):
		writeError(w, http.StatusConflict, "already_in_use", err.Error())
	case errors.Is(err, domainerrors.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, authtransport.ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
