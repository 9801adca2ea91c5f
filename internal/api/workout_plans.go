package api

import (
	"net/http"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

type workoutPlanRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DurationMin *int    `json:"duration"`
}

func (h *Handler) createWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	var req workoutPlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	plan, err := h.plans.Create(r.Context(), actor, userID, domain.CreateWorkoutPlanInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		DurationMin: deref(req.DurationMin),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "Workout plan created successfully", newWorkoutPlanView(plan))
}

func (h *Handler) updateWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	actor, planID, userID, ok := h.planTarget(w, r)
	if !ok {
		return
	}
	var req workoutPlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	plan, err := h.plans.Update(r.Context(), actor, planID, userID, domain.UpdateWorkoutPlanInput{
		Title:       req.Title,
		Description: req.Description,
		DurationMin: req.DurationMin,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "Workout plan updated successfully", newWorkoutPlanView(plan))
}

func (h *Handler) deleteWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	actor, planID, userID, ok := h.planTarget(w, r)
	if !ok {
		return
	}
	if err := h.plans.Delete(r.Context(), actor, planID, userID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "Workout plan deleted successfully", nil)
}

func (h *Handler) getWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	actor, planID, userID, ok := h.planTarget(w, r)
	if !ok {
		return
	}
	plan, err := h.plans.Get(r.Context(), actor, planID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "Workout plan fetched successfully", newWorkoutPlanView(plan))
}

func (h *Handler) listWorkoutPlans(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	plans, err := h.plans.List(r.Context(), actor, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	views := make([]WorkoutPlanView, 0, len(plans))
	for i := range plans {
		views = append(views, newWorkoutPlanView(&plans[i]))
	}
	writeData(w, "Workout plans fetched successfully", views)
}

func (h *Handler) planTarget(w http.ResponseWriter, r *http.Request) (actor access.Actor, planID, userID int64, ok bool) {
	if actor, ok = h.requireActor(w, r); !ok {
		return
	}
	if planID, ok = pathID(w, r, "workoutId"); !ok {
		return
	}
	userID, ok = pathID(w, r, "userId")
	return
}
