package api

import (
	"net/http"

	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

type activityLogRequest struct {
	ActivityType   *string `json:"activityType"`
	CaloriesBurned *int    `json:"caloriesBurned"`
	DurationMin    *int    `json:"duration"`
}

func (h *Handler) createActivityLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	userID, ok := queryID(w, r, "userId")
	if !ok {
		return
	}
	planID, ok := queryID(w, r, "workoutPlanId")
	if !ok {
		return
	}
	var req activityLogRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.logs.Create(r.Context(), actor, userID, planID, domain.CreateActivityLogInput{
		ActivityType:   deref(req.ActivityType),
		CaloriesBurned: deref(req.CaloriesBurned),
		DurationMin:    deref(req.DurationMin),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "Activity log created successfully", newActivityLogView(entry))
}

func (h *Handler) updateActivityLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	logID, ok := pathID(w, r, "activityLogId")
	if !ok {
		return
	}
	userID, ok := queryID(w, r, "userId")
	if !ok {
		return
	}
	planID, ok := optionalQueryID(w, r, "workoutPlanId")
	if !ok {
		return
	}
	var req activityLogRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.logs.Update(r.Context(), actor, logID, userID, domain.UpdateActivityLogInput{
		ActivityType:   req.ActivityType,
		CaloriesBurned: req.CaloriesBurned,
		DurationMin:    req.DurationMin,
		WorkoutPlanID:  planID,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "Activity log updated successfully", newActivityLogView(entry))
}

func (h *Handler) deleteActivityLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	logID, ok := pathID(w, r, "activityLogId")
	if !ok {
		return
	}
	userID, ok := queryID(w, r, "userId")
	if !ok {
		return
	}
	if err := h.logs.Delete(r.Context(), actor, logID, userID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "Activity log deleted successfully", nil)
}

func (h *Handler) getActivityLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	logID, ok := pathID(w, r, "activityLogId")
	if !ok {
		return
	}
	userID, ok := queryID(w, r, "userId")
	if !ok {
		return
	}
	entry, err := h.logs.Get(r.Context(), actor, logID, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "Activity log fetched successfully", newActivityLogView(entry))
}

func (h *Handler) listActivityLogsByUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	userID, ok := queryID(w, r, "userId")
	if !ok {
		return
	}
	entries, err := h.logs.ListByUser(r.Context(), actor, userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "Activity logs fetched successfully", activityLogViews(entries))
}

func (h *Handler) listActivityLogsByWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	planID, ok := queryID(w, r, "workoutPlanId")
	if !ok {
		return
	}
	entries, err := h.logs.ListByWorkoutPlan(r.Context(), actor, planID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "Activity logs fetched successfully", activityLogViews(entries))
}

func activityLogViews(entries []domain.ActivityLog) []ActivityLogView {
	views := make([]ActivityLogView, 0, len(entries))
	for i := range entries {
		views = append(views, newActivityLogView(&entries[i]))
	}
	return views
}
