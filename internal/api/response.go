package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

const msgUnexpected = "Something Went Wrong :("

// Envelope wraps every JSON response except login.
type Envelope struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func writeData(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Envelope{Message: message, Data: data})
}

// writeError maps deliberate service errors to their status and fixed message.
// Anything else is logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		writeJSON(w, httpErr.StatusCode(), Envelope{Message: httpErr.Error()})
		return
	}
	logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, Envelope{Message: msgUnexpected})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"` + msgUnexpected + `","data":null}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
