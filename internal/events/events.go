// Package events defines the lifecycle events recorded in the outbox whenever a
// user, workout plan or activity log changes.
package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Type identifies a lifecycle event.
type Type string

const (
	UserCreated Type = "user.created"
	UserUpdated Type = "user.updated"
	UserDeleted Type = "user.deleted"

	WorkoutPlanCreated Type = "workout_plan.created"
	WorkoutPlanUpdated Type = "workout_plan.updated"
	WorkoutPlanDeleted Type = "workout_plan.deleted"

	ActivityLogCreated Type = "activity_log.created"
	ActivityLogUpdated Type = "activity_log.updated"
	ActivityLogDeleted Type = "activity_log.deleted"
)

// Metadata describes how an event type is routed.
type Metadata struct {
	AggregateType string
	Topic         string
}

var catalog = map[Type]Metadata{
	UserCreated:        {AggregateType: "user", Topic: "user_events"},
	UserUpdated:        {AggregateType: "user", Topic: "user_events"},
	UserDeleted:        {AggregateType: "user", Topic: "user_events"},
	WorkoutPlanCreated: {AggregateType: "workout_plan", Topic: "workout_plan_events"},
	WorkoutPlanUpdated: {AggregateType: "workout_plan", Topic: "workout_plan_events"},
	WorkoutPlanDeleted: {AggregateType: "workout_plan", Topic: "workout_plan_events"},
	ActivityLogCreated: {AggregateType: "activity_log", Topic: "activity_log_events"},
	ActivityLogUpdated: {AggregateType: "activity_log", Topic: "activity_log_events"},
	ActivityLogDeleted: {AggregateType: "activity_log", Topic: "activity_log_events"},
}

// Lookup returns routing metadata for t.
func Lookup(t Type) (Metadata, bool) {
	meta, ok := catalog[t]
	return meta, ok
}

// Record is a single outbox entry waiting to be published.
type Record struct {
	ID           string
	Type         Type
	AggregateID  string
	PartitionKey string
	Payload      any
	OccurredAt   time.Time
}

// NewRecord builds an outbox record for the aggregate, keyed by its owning user
// so that events for one user land on the same partition.
func NewRecord(t Type, aggregateID, ownerID int64, payload any) Record {
	return Record{
		ID:           uuid.NewString(),
		Type:         t,
		AggregateID:  strconv.FormatInt(aggregateID, 10),
		PartitionKey: strconv.FormatInt(ownerID, 10),
		Payload:      payload,
		OccurredAt:   time.Now().UTC(),
	}
}

// Topic returns the Kafka topic the record is published to.
func (r Record) Topic() string { return catalog[r.Type].Topic }

// AggregateType returns the kind of entity the record describes.
func (r Record) AggregateType() string { return catalog[r.Type].AggregateType }

// User is the payload for user lifecycle events. Password material is never included.
type User struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// WorkoutPlan is the payload for workout plan lifecycle events.
type WorkoutPlan struct {
	WorkoutPlanID int64     `json:"workout_plan_id"`
	UserID        int64     `json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	DurationMin   int       `json:"duration_min"`
	CreatedAt     time.Time `json:"created_at"`
}

// ActivityLog is the payload for activity log lifecycle events.
type ActivityLog struct {
	ActivityLogID  int64     `json:"activity_log_id"`
	UserID         int64     `json:"user_id"`
	WorkoutPlanID  int64     `json:"workout_plan_id"`
	ActivityType   string    `json:"activity_type"`
	CaloriesBurned int       `json:"calories_burned"`
	DurationMin    int       `json:"duration_min"`
	CreatedAt      time.Time `json:"created_at"`
}

// Deleted is the payload for every *.deleted event.
type Deleted struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}
