package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PatrickVM/in-house-open-sub001/internal/security"
	"github.com/PatrickVM/in-house-open-sub001/internal/service"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Verification service.VerificationService
	Enforcement  service.EnforcementService
	Admin        service.AdminService
	Tokens       security.TokenManager
	Operational  *security.OperationalTokenVerifier
	DB           *sql.DB
}

// NewRouter wires all routes. User-facing routes require a bearer token;
// operator routes require the operational shared secret.
func NewRouter(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()

	verification := NewVerificationHandler(deps.Verification)
	admin := NewAdminHandler(deps.Enforcement, deps.Admin)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(deps.Tokens))
	api.HandleFunc("/churches/{churchID}/join", verification.HandleRequestToJoin).Methods("POST")
	api.HandleFunc("/verification/requests", verification.HandleAssignedRequests).Methods("GET")
	api.HandleFunc("/verification/requests/{requestID}/vote", verification.HandleSubmitVote).Methods("POST")
	api.HandleFunc("/users/{userID}/membership", verification.HandleMembershipStatus).Methods("GET")

	ops := router.PathPrefix("/api/v1/admin").Subrouter()
	ops.Use(OperationalAuthMiddleware(deps.Operational))
	ops.HandleFunc("/enforcement/run", admin.HandleRunEnforcement).Methods("POST")
	ops.HandleFunc("/users/{userID}/exemption", admin.HandleSetExemption).Methods("POST")
	ops.HandleFunc("/users/{userID}/reactivate", admin.HandleReactivate).Methods("POST")
	ops.HandleFunc("/churches/{churchID}/quorum", admin.HandleUpdateQuorum).Methods("POST")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "unhealthy", Reason: err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	return router
}
