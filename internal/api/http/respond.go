package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	"github.com/PatrickVM/in-house-open-sub001/internal/logger"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeDomainError maps workflow sentinels onto HTTP statuses. Every
// rejection carries a specific reason so client UIs can explain eligibility
// rules instead of showing a generic failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrChurchNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Reason: err.Error()})
	case errors.Is(err, domain.ErrRequestResolved):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "request_resolved", Reason: err.Error()})
	case errors.Is(err, domain.ErrDuplicateVote):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "duplicate_vote", Reason: err.Error()})
	case errors.Is(err, domain.ErrNotAuthorized):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not_authorized", Reason: err.Error()})
	case errors.Is(err, domain.ErrVoterNotEligible):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not_eligible", Reason: err.Error()})
	case errors.Is(err, domain.ErrInvalidAction):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_action", Reason: err.Error()})
	default:
		// Durable-store failures are retryable from the caller's view.
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Reason: "temporary failure, retry later"})
	}
}
