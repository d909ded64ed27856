package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/NurlanMehdi/insider-champions-league/internal/league"
)

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type dataResponse struct {
	Data   any    `json:"data"`
	Status string `json:"status"`
}

func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dataResponse{Data: v, Status: "success"})
}

// writeError sends a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// writeServiceError maps league errors to HTTP statuses. Anything unknown is
// logged and reported as a 500 without its message.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, league.ErrInvalidArgument):
		writeError(w, http.StatusUnprocessableEntity, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, league.ErrAlreadyPlayed):
		writeError(w, http.StatusConflict, "ALREADY_PLAYED", err.Error())
	case errors.Is(err, league.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}
