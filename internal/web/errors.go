package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is mapped through catalog.MapError, logged with the request
// ID, and returned in the shape the client asked for: an alert fragment for
// HX-Request calls, JSON for /api and JSON-accepting clients, plain text
// otherwise.

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/catalogview/internal/catalog"
	"github.com/JonMunkholm/catalogview/internal/logging"
	"github.com/JonMunkholm/catalogview/internal/web/templates"
)

// ErrorResponse is the JSON body for API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var (
	msgAPIKeyMissing = catalog.UserMessage{
		Message: "API key required",
		Action:  "Send the key in the X-API-Key header",
		Code:    "AUTH001",
	}
	msgAPIKeyInvalid = catalog.UserMessage{
		Message: "Invalid API key",
		Code:    "AUTH002",
	}
)

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := catalog.MapError(err)

	level := slog.LevelError
	if statusCode < 500 {
		level = slog.LevelWarn
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	s.writeUserMessage(w, r, userMsg, statusCode)
}

// rejectAPIKey answers a refresh call without a valid X-API-Key.
func (s *Server) rejectAPIKey(w http.ResponseWriter, r *http.Request, statusCode int) {
	msg := msgAPIKeyInvalid
	if statusCode == http.StatusUnauthorized {
		msg = msgAPIKeyMissing
	}
	s.writeUserMessage(w, r, msg, statusCode)
}

func (s *Server) writeUserMessage(w http.ResponseWriter, r *http.Request, msg catalog.UserMessage, statusCode int) {
	switch {
	case isHTMX(r):
		renderErrorPartial(w, r, msg, statusCode)
	case wantsJSON(r):
		respondErrorJSON(w, msg, statusCode)
	default:
		respondErrorText(w, msg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg catalog.UserMessage, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorText writes a plain text error response.
func respondErrorText(w http.ResponseWriter, msg catalog.UserMessage, statusCode int) {
	http.Error(w, msg.Message+" ("+msg.Code+")", statusCode)
}

// renderErrorPartial renders an alert fragment for fragment requests,
// retargeted at the alert region so the table stays in place.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg catalog.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("HX-Retarget", "#"+templates.AlertID)
	w.WriteHeader(statusCode)
	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		slog.Error("render error alert", "error", err)
	}
}

// isHTMX reports whether the request asked for a fragment.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON reports whether the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
