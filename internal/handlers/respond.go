package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BradenHooton/complaintbox/internal/models"
	pkghttp "github.com/BradenHooton/complaintbox/pkg/http"
)

// successResponse is the body of mutations that return nothing else
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// errorResponder maps service errors to HTTP responses. Outside production
// the underlying error text of a 500 is echoed in "details".
type errorResponder struct {
	production bool
}

func newErrorResponder(env string) errorResponder {
	return errorResponder{production: env == "production"}
}

func (e errorResponder) write(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		pkghttp.WriteBadRequest(w, reason(err, models.ErrValidation, "Invalid request"))
	case errors.Is(err, models.ErrInvalidCredentials):
		pkghttp.WriteUnauthorized(w, "Invalid credentials")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, reason(err, models.ErrNotFound, "Not found"))
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, reason(err, models.ErrConflict, "Resource already exists"))
	case errors.Is(err, models.ErrInvalidState):
		pkghttp.WriteInvalidState(w, reason(err, models.ErrInvalidState, "Invalid complaint state"))
	default:
		e.internal(w, err)
	}
}

func (e errorResponder) internal(w http.ResponseWriter, err error) {
	if e.production || err == nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}
	pkghttp.WriteErrorWithDetails(w, http.StatusInternalServerError, "internal_error", "Internal server error", err.Error())
}

// reason returns the text wrapped after sentinel ("<sentinel>: <reason>"),
// or fallback when the error carries no reason.
func reason(err, sentinel error, fallback string) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		if r := msg[i+len(prefix):]; r != "" {
			return r
		}
	}
	return fallback
}
