package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/approvalbridge/bridge-go/internal/notify"
	"github.com/approvalbridge/bridge-go/internal/service"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Trigger(r.Context()); err != nil {
		slog.Error("trigger failed", "error", err)
		if errors.Is(err, notify.ErrNotConfigured) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"message": "[CONFIG ERROR] Teams Webhook URL is not configured.",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "An internal server error occurred while sending the notification to Teams.",
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Success! The notification has been sent to the configured Teams channel.",
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req service.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slog.Info("received action",
		"action", req.Action,
		"instance_id", req.InstanceID,
		"user", UserFromContext(r.Context()),
		"request_id", RequestIDFromContext(r.Context()),
	)

	result, err := s.svc.ProcessAction(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAction) {
			writeError(w, http.StatusBadRequest, "Invalid action specified.")
			return
		}
		slog.Error("action processing failed", "action", req.Action, "instance_id", req.InstanceID, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to process action: %s", err))
		return
	}

	// Teams expects a 200 OK to confirm the action was received.
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      fmt.Sprintf("Action '%s' processed successfully.", result.Action),
		"sap_response": result.Status,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
