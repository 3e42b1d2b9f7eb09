// Package httpx provides the JSON response envelope shared by every endpoint.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Envelope is the uniform response shape. Callers must check Success before
// trusting Data.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK sends {success:true, data}.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage sends {success:true, message}.
func OKMessage(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// Saved sends {success:true, data, message}.
func Saved(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Fail sends {success:false, message} with the given status.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}

// FailError sends {success:false, error} with the given status.
func FailError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Error: message})
}

// MaxBodyBytes bounds request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrValidation
		}
		return err
	}
	return nil
}

// BatchSummary is the data part of a batch response.
type BatchSummary struct {
	Total  int `json:"total"`
	Posted int `json:"posted"`
	Failed int `json:"failed"`
}

// Batch writes a batch report. Any failed line makes the whole response
// unsuccessful: 400 when nothing was sent, 422 when some lines failed.
func Batch(w http.ResponseWriter, report shared.BatchReport, messages *shared.ErrorTranslator) {
	summary := BatchSummary{Total: report.Total, Posted: report.Posted, Failed: report.Failed}
	switch {
	case report.OK():
		JSON(w, http.StatusOK, Envelope{Success: true, Data: summary, Message: messages.Text(shared.MsgSaved)})
	case report.Rejected:
		JSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Data:    summary,
			Message: messages.Text(shared.MsgBatchRejected, report.Failed),
			Errors:  report.Errors,
		})
	default:
		JSON(w, http.StatusUnprocessableEntity, Envelope{
			Success: false,
			Data:    summary,
			Message: messages.Text(shared.MsgBatchFailed, report.Failed, report.Total),
			Errors:  report.Errors,
		})
	}
}
