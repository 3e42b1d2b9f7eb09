package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// ErrValidation marks malformed request bodies.
var ErrValidation = errors.New("validation failed")

// StatusFor maps domain errors to HTTP status codes. Unknown errors are 500.
func StatusFor(err error) int {
	var userErr *shared.UserError
	var rejected *shared.Rejected
	switch {
	case errors.Is(err, ErrValidation), errors.As(err, &userErr):
		return http.StatusBadRequest
	case errors.As(err, &rejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrForbidden), errors.Is(err, shared.ErrNoBranchScope):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrSessionInvalid):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Responder is the outer boundary of every JSON handler: it logs the full
// error server side and answers with a safe envelope.
type Responder struct {
	Logger      *slog.Logger
	Messages    *shared.ErrorTranslator
	Development bool
}

// Error logs err and writes {success:false, message}.
func (rs Responder) Error(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)
	rs.log(r, op, status, err)
	Fail(w, status, rs.message(err))
}

// Invalid writes a 400 envelope with a localized message key.
func (rs Responder) Invalid(w http.ResponseWriter, key string, args ...any) {
	Fail(w, http.StatusBadRequest, rs.Messages.Text(key, args...))
}

// Text localizes a message key.
func (rs Responder) Text(key string, args ...any) string {
	return rs.Messages.Text(key, args...)
}

// SafeMessage translates err without writing anything.
func (rs Responder) SafeMessage(err error) string {
	return rs.message(err)
}

func (rs Responder) message(err error) string {
	return rs.Messages.SafeMessage(err)
}

func (rs Responder) log(r *http.Request, op string, status int, err error) {
	logger := rs.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{slog.String("op", op), slog.Int("status", status), slog.Any("error", err)}
	if r != nil {
		attrs = append(attrs, slog.String("path", r.URL.Path))
	}
	if status < http.StatusInternalServerError {
		logger.Warn("request failed", attrs...)
		return
	}
	if rs.Development {
		attrs = append(attrs, slog.String("stack", string(debug.Stack())))
	}
	logger.Error("request failed", attrs...)
}
