package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-auth-nosql/internal/domain"
)

// Envelope is the response wrapper shared by every auth endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Warning reports a secondary failure after the primary effect succeeded.
	Warning string `json:"warning,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Message: msg})
}

// writeFailure reports a workflow failure. Business outcomes travel in the
// envelope with a 200 status; only the message distinguishes them.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		slog.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeError(w, http.StatusOK, err.Error())
}

// decode reads a JSON body into dst and writes a 400 when it is malformed.
// An empty body decodes to the zero value.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}
