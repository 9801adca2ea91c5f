// Package api exposes the fitness tracker REST endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/auth"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

// Handler coordinates HTTP requests with the resource services.
type Handler struct {
	users  *domain.UserService
	plans  *domain.WorkoutPlanService
	logs   *domain.ActivityLogService
	tokens auth.Config
	logger *slog.Logger
}

// NewHandler builds a Handler.
func NewHandler(users *domain.UserService, plans *domain.WorkoutPlanService, logs *domain.ActivityLogService, tokens auth.Config, logger *slog.Logger) *Handler {
	return &Handler{users: users, plans: plans, logs: logs, tokens: tokens, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", healthz)
	mux.HandleFunc("POST /api/auth/login", h.login)

	mux.HandleFunc("POST /api/users", h.createUser)
	mux.HandleFunc("GET /api/users", h.listUsers)
	mux.HandleFunc("GET /api/users/{id}", h.getUser)
	mux.HandleFunc("PUT /api/users/{id}", h.updateUser)
	mux.HandleFunc("DELETE /api/users/{id}", h.deleteUser)

	mux.HandleFunc("POST /api/workout-plans/user/{userId}", h.createWorkoutPlan)
	mux.HandleFunc("GET /api/workout-plans/user/{userId}", h.listWorkoutPlans)
	mux.HandleFunc("GET /api/workout-plans/{workoutId}/user/{userId}", h.getWorkoutPlan)
	mux.HandleFunc("PUT /api/workout-plans/{workoutId}/user/{userId}", h.updateWorkoutPlan)
	mux.HandleFunc("DELETE /api/workout-plans/{workoutId}/user/{userId}", h.deleteWorkoutPlan)

	mux.HandleFunc("POST /api/activity-logs", h.createActivityLog)
	mux.HandleFunc("GET /api/activity-logs/by-user", h.listActivityLogsByUser)
	mux.HandleFunc("GET /api/activity-logs/by-workout", h.listActivityLogsByWorkoutPlan)
	mux.HandleFunc("GET /api/activity-logs/{activityLogId}", h.getActivityLog)
	mux.HandleFunc("PUT /api/activity-logs/{activityLogId}", h.updateActivityLog)
	mux.HandleFunc("DELETE /api/activity-logs/{activityLogId}", h.deleteActivityLog)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requireActor returns the resolved actor or writes 401.
func (h *Handler) requireActor(w http.ResponseWriter, r *http.Request) (access.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, domain.MsgAuthRequired)
		return access.Actor{}, false
	}
	return actor, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	return parseID(w, name, r.PathValue(name))
}

func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if strings.TrimSpace(raw) == "" {
		writeMessage(w, http.StatusBadRequest, "Missing required parameter: "+name)
		return 0, false
	}
	return parseID(w, name, raw)
}

// optionalQueryID returns nil when the parameter is absent.
func optionalQueryID(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	if strings.TrimSpace(r.URL.Query().Get(name)) == "" {
		return nil, true
	}
	id, ok := queryID(w, r, name)
	if !ok {
		return nil, false
	}
	return &id, true
}

func parseID(w http.ResponseWriter, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "Invalid "+name+": "+raw)
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON request")
		return false
	}
	return true
}
