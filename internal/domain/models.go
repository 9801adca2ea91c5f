package domain

import (
	"time"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
)

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         access.Role
}

// Summary returns the owner view embedded in plans and activity logs.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Role: u.Role}
}

// UserSummary identifies the owner of a plan or activity log.
type UserSummary struct {
	ID   int64
	Name string
	Role access.Role
}

// WorkoutPlan is a reusable training plan owned by exactly one user.
type WorkoutPlan struct {
	ID          int64
	Title       string
	Description string
	DurationMin int
	CreatedAt   time.Time
	Owner       UserSummary
}

// Summary returns the plan view embedded in activity logs.
func (p WorkoutPlan) Summary() WorkoutPlanSummary {
	return WorkoutPlanSummary{ID: p.ID, Title: p.Title, OwnerID: p.Owner.ID}
}

// WorkoutPlanSummary identifies the plan an activity log was recorded against.
type WorkoutPlanSummary struct {
	ID      int64
	Title   string
	OwnerID int64
}

// ActivityLog records a single workout session.
type ActivityLog struct {
	ID             int64
	ActivityType   string
	CaloriesBurned int
	DurationMin    int
	CreatedAt      time.Time
	User           UserSummary
	WorkoutPlan    WorkoutPlanSummary
}
