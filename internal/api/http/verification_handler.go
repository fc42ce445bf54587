package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	"github.com/PatrickVM/in-house-open-sub001/internal/service"
)

// VerificationHandler exposes the peer-verification workflow over HTTP
type VerificationHandler struct {
	svc service.VerificationService
}

func NewVerificationHandler(svc service.VerificationService) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

type joinRequestBody struct {
	Note string `json:"note"`
}

// HandleRequestToJoin creates a PENDING verification request for the caller
func (h *VerificationHandler) HandleRequestToJoin(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Reason: "no caller identity"})
		return
	}
	churchID, err := pathID(r, "churchID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Reason: "invalid church id"})
		return
	}

	var body joinRequestBody
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body) // note is optional
	}

	req, err := h.svc.RequestToJoin(r.Context(), callerID, churchID, body.Note)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

type voteBody struct {
	Action string `json:"action"` // "approve" or "reject"
	Note   string `json:"note"`
}

// HandleSubmitVote records one vote by the caller on a verification request
func (h *VerificationHandler) HandleSubmitVote(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Reason: "no caller identity"})
		return
	}
	requestID, err := pathID(r, "requestID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Reason: "invalid request id"})
		return
	}

	var body voteBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Reason: "invalid JSON body"})
		return
	}
	action, err := parseAction(body.Action)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	outcome, err := h.svc.SubmitVote(r.Context(), requestID, callerID, action, body.Note)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// HandleAssignedRequests returns the caller's rotation slice of pending requests
func (h *VerificationHandler) HandleAssignedRequests(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated", Reason: "no caller identity"})
		return
	}

	assigned, err := h.svc.AssignedRequests(r.Context(), callerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if assigned == nil {
		assigned = []domain.VerificationRequest{}
	}
	writeJSON(w, http.StatusOK, assigned)
}

type membershipResponse struct {
	UserID           int32                   `json:"user_id"`
	MembershipStatus domain.MembershipStatus `json:"membership_status"`
	ChurchID         *int32                  `json:"church_id,omitempty"`
	VerifiedAt       *string                 `json:"verified_at,omitempty"`
	AccountActive    bool                    `json:"account_active"`
	DisabledReason   *domain.DisabledReason  `json:"disabled_reason,omitempty"`
}

// HandleMembershipStatus reports a user's membership facet to collaborators
func (h *VerificationHandler) HandleMembershipStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Reason: "invalid user id"})
		return
	}

	user, err := h.svc.MembershipStatus(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := membershipResponse{
		UserID:           user.ID,
		MembershipStatus: user.MembershipStatus,
		ChurchID:         user.ChurchID,
		AccountActive:    user.AccountActive,
		DisabledReason:   user.DisabledReason,
	}
	if user.VerifiedAt != nil {
		s := user.VerifiedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.VerifiedAt = &s
	}
	writeJSON(w, http.StatusOK, resp)
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return int32(id), nil
}

func parseAction(raw string) (domain.VoteAction, error) {
	switch strings.ToLower(raw) {
	case "approve":
		return domain.VoteActionApproved, nil
	case "reject":
		return domain.VoteActionRejected, nil
	default:
		return "", domain.ErrInvalidAction
	}
}
