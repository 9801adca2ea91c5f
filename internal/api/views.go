package api

import (
	"time"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

// UserView is the public representation of a user. The password hash never leaves the service.
type UserView struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  access.Role `json:"role"`
}

// WorkoutPlanView flattens the owning user into the plan.
type WorkoutPlanView struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DurationMin int         `json:"duration"`
	CreatedDate time.Time   `json:"createdDate"`
	UserID      int64       `json:"userId"`
	UserName    string      `json:"userName"`
	UserRole    access.Role `json:"userRole"`
}

// ActivityLogView flattens the owning user and plan into the log.
type ActivityLogView struct {
	ID               int64       `json:"id"`
	ActivityType     string      `json:"activityType"`
	CaloriesBurned   int         `json:"caloriesBurned"`
	DurationMin      int         `json:"duration"`
	CreatedDate      time.Time   `json:"createdDate"`
	UserID           int64       `json:"userId"`
	UserName         string      `json:"userName"`
	UserRole         access.Role `json:"userRole"`
	WorkoutPlanID    int64       `json:"workoutPlanId"`
	WorkoutPlanTitle string      `json:"workoutPlanTitle"`
}

func newUserView(u *domain.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func newWorkoutPlanView(p *domain.WorkoutPlan) WorkoutPlanView {
	return WorkoutPlanView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		DurationMin: p.DurationMin,
		CreatedDate: p.CreatedAt,
		UserID:      p.Owner.ID,
		UserName:    p.Owner.Name,
		UserRole:    p.Owner.Role,
	}
}

func newActivityLogView(l *domain.ActivityLog) ActivityLogView {
	return ActivityLogView{
		ID:               l.ID,
		ActivityType:     l.ActivityType,
		CaloriesBurned:   l.CaloriesBurned,
		DurationMin:      l.DurationMin,
		CreatedDate:      l.CreatedAt,
		UserID:           l.User.ID,
		UserName:         l.User.Name,
		UserRole:         l.User.Role,
		WorkoutPlanID:    l.WorkoutPlan.ID,
		WorkoutPlanTitle: l.WorkoutPlan.Title,
	}
}
