package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/craftlist/craft-list/pkg/craftlist"
)

// ErrorResponse is the error body for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// AckResponse is the acknowledgment body for successful deletes
type AckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}

func respondAck(w http.ResponseWriter, r *http.Request, msg string) {
	render.JSON(w, r, AckResponse{Success: true, Message: msg})
}

// writeError maps a service error onto the response contract:
// validation -> 400, uniqueness conflict -> 409, missing target -> 404,
// anything else -> 500 without leaking internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *craftlist.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, r, http.StatusBadRequest, ve.Error())
	case errors.Is(err, craftlist.ErrDuplicateSlug):
		respondError(w, r, http.StatusConflict, craftlist.ErrDuplicateSlug.Error())
	case errors.Is(err, craftlist.ErrVoteTooSoon):
		respondError(w, r, http.StatusConflict, craftlist.ErrVoteTooSoon.Error())
	case isNotFound(err):
		respondError(w, r, http.StatusNotFound, notFoundMessage(err))
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

var notFoundSentinels = []error{
	craftlist.ErrUserNotFound,
	craftlist.ErrTicketNotFound,
	craftlist.ErrServerNotFound,
	craftlist.ErrCategoryNotFound,
	craftlist.ErrPostNotFound,
	craftlist.ErrPageNotFound,
	craftlist.ErrBannerNotFound,
}

func isNotFound(err error) bool {
	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func notFoundMessage(err error) string {
	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "not found"
}
