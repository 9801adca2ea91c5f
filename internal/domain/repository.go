package domain

import (
	"context"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/events"
)

// Lookups return (nil, nil) when the entity does not exist. Inside a transaction
// the postgres implementation locks the returned rows until commit.

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	CountByRole(ctx context.Context, role access.Role) (int, error)
}

// WorkoutPlanRepository persists workout plans.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *WorkoutPlan) error
	Update(ctx context.Context, plan *WorkoutPlan) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*WorkoutPlan, error)
	ListByOwner(ctx context.Context, userID int64) ([]WorkoutPlan, error)
}

// ActivityLogRepository persists activity logs.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *ActivityLog) error
	Update(ctx context.Context, log *ActivityLog) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*ActivityLog, error)
	ListByUser(ctx context.Context, userID int64) ([]ActivityLog, error)
	ListByWorkoutPlan(ctx context.Context, workoutPlanID int64) ([]ActivityLog, error)
}

// OutboxWriter records lifecycle events in the same transaction as the change.
type OutboxWriter interface {
	Append(ctx context.Context, record events.Record) error
}

// TxFn is a unit of work run by a TransactionManager.
type TxFn func(ctx context.Context) error

// TransactionManager runs fn atomically. Repositories called with the ctx passed
// to fn participate in the transaction.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

// PasswordHasher performs one-way password hashing.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Store bundles the collaborators a storage driver provides.
type Store struct {
	Users        UserRepository
	WorkoutPlans WorkoutPlanRepository
	ActivityLogs ActivityLogRepository
	Outbox       OutboxWriter
	Tx           TransactionManager
}
