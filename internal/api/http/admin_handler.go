package http

import (
	"encoding/json"
	"net/http"

	"github.com/PatrickVM/in-house-open-sub001/internal/service"
)

// AdminHandler exposes operator actions: the enforcement trigger, exemption
// flags, reactivation and quorum changes. All routes sit behind the
// operational shared-secret token.
type AdminHandler struct {
	enforcement service.EnforcementService
	admin       service.AdminService
}

func NewAdminHandler(enforcement service.EnforcementService, admin service.AdminService) *AdminHandler {
	return &AdminHandler{enforcement: enforcement, admin: admin}
}

// HandleRunEnforcement runs one enforcement cycle and returns the full summary
func (h *AdminHandler) HandleRunEnforcement(w http.ResponseWriter, r *http.Request) {
	summary, err := h.enforcement.RunCycle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type exemptionBody struct {
	Exempt bool `json:"exempt"`
}

// HandleSetExemption toggles the enforcement exemption flag for a user
func (h *AdminHandler) HandleSetExemption(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Reason: "invalid user id"})
		return
	}
	var body exemptionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Reason: "invalid JSON body"})
		return
	}
	if err := h.admin.SetEnforcementExempt(r.Context(), userID, body.Exempt); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// HandleReactivate restores a disabled account to normal enforcement eligibility
func (h *AdminHandler) HandleReactivate(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Reason: "invalid user id"})
		return
	}
	if err := h.admin.ReactivateAccount(r.Context(), userID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type quorumBody struct {
	MinVerifications int32 `json:"min_verifications"`
}

// HandleUpdateQuorum updates a church's verification threshold
func (h *AdminHandler) HandleUpdateQuorum(w http.ResponseWriter, r *http.Request) {
	churchID, err := pathID(r, "churchID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Reason: "invalid church id"})
		return
	}
	var body quorumBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Reason: "invalid JSON body"})
		return
	}
	if err := h.admin.UpdateMinVerifications(r.Context(), churchID, body.MinVerifications); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
