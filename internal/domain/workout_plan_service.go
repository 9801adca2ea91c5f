package domain

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/events"
)

// CreateWorkoutPlanInput carries a new plan.
type CreateWorkoutPlanInput struct {
	Title       string
	Description string
	DurationMin int
}

// UpdateWorkoutPlanInput carries a partial plan update; nil fields are left unchanged.
type UpdateWorkoutPlanInput struct {
	Title       *string
	Description *string
	DurationMin *int
}

// WorkoutPlanService manages workout plans scoped to their owner.
type WorkoutPlanService struct {
	users  UserRepository
	plans  WorkoutPlanRepository
	outbox OutboxWriter
	tx     TransactionManager
	logger *slog.Logger
}

// NewWorkoutPlanService constructs a WorkoutPlanService.
func NewWorkoutPlanService(store Store, logger *slog.Logger) *WorkoutPlanService {
	return &WorkoutPlanService{
		users:  store.Users,
		plans:  store.WorkoutPlans,
		outbox: store.Outbox,
		tx:     store.Tx,
		logger: logger,
	}
}

// Create adds a plan owned by userID.
func (s *WorkoutPlanService) Create(ctx context.Context, actor access.Actor, userID int64, in CreateWorkoutPlanInput) (*WorkoutPlan, error) {
	if err := requireRole(actor, access.WorkoutPlanCreate); err != nil {
		return nil, err
	}

	var plan *WorkoutPlan
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		owner, err := s.users.Get(ctx, userID)
		if err != nil {
			return err
		}
		if owner == nil {
			return notFound(MsgUserNotFound)
		}
		if err := requireOwner(actor, access.WorkoutPlanCreate, owner.ID, "Not authorized to create a workout plan for this user"); err != nil {
			return err
		}

		fields := workoutPlanFields{Title: strings.TrimSpace(in.Title), DurationMin: in.DurationMin}
		if err := fields.Validate(); err != nil {
			return NewValidationError(err)
		}

		plan = &WorkoutPlan{
			Title:       fields.Title,
			Description: strings.TrimSpace(in.Description),
			DurationMin: fields.DurationMin,
			CreatedAt:   nowUTC(),
			Owner:       owner.Summary(),
		}
		if err := s.plans.Create(ctx, plan); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.NewRecord(events.WorkoutPlanCreated, plan.ID, owner.ID, workoutPlanPayload(plan)))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workout plan created", "workout_plan_id", plan.ID, "user_id", userID, "actor_id", actor.ID)
	return plan, nil
}

// Update changes title, description or duration of a plan.
func (s *WorkoutPlanService) Update(ctx context.Context, actor access.Actor, planID, userID int64, in UpdateWorkoutPlanInput) (*WorkoutPlan, error) {
	const op = access.WorkoutPlanUpdate
	if err := requireRole(actor, op); err != nil {
		return nil, err
	}

	var plan *WorkoutPlan
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		plan, err = s.loadOwned(ctx, actor, op, planID, userID, "Not authorized to update this workout plan")
		if err != nil {
			return err
		}

		if in.Title != nil {
			plan.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			plan.Description = strings.TrimSpace(*in.Description)
		}
		if in.DurationMin != nil {
			plan.DurationMin = *in.DurationMin
		}
		fields := workoutPlanFields{Title: plan.Title, DurationMin: plan.DurationMin}
		if err := fields.Validate(); err != nil {
			return NewValidationError(err)
		}

		if err := s.plans.Update(ctx, plan); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.NewRecord(events.WorkoutPlanUpdated, plan.ID, plan.Owner.ID, workoutPlanPayload(plan)))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workout plan updated", "workout_plan_id", plan.ID, "user_id", userID, "actor_id", actor.ID)
	return plan, nil
}

// Delete removes a plan. Plans with recorded activity logs cannot be deleted.
func (s *WorkoutPlanService) Delete(ctx context.Context, actor access.Actor, planID, userID int64) error {
	const op = access.WorkoutPlanDelete
	if err := requireRole(actor, op); err != nil {
		return err
	}

	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		plan, err := s.loadOwned(ctx, actor, op, planID, userID, "Not authorized to delete this workout plan")
		if err != nil {
			return err
		}
		if err := s.plans.Delete(ctx, plan.ID); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.NewRecord(events.WorkoutPlanDeleted, plan.ID, plan.Owner.ID, events.Deleted{
			ID:        plan.ID,
			UserID:    plan.Owner.ID,
			DeletedAt: nowUTC(),
		}))
	})
	if err != nil {
		return err
	}

	s.logger.Info("workout plan deleted", "workout_plan_id", planID, "user_id", userID, "actor_id", actor.ID)
	return nil
}

// Get returns a plan addressed through its owner.
func (s *WorkoutPlanService) Get(ctx context.Context, actor access.Actor, planID, userID int64) (*WorkoutPlan, error) {
	const op = access.WorkoutPlanGet
	if err := requireRole(actor, op); err != nil {
		return nil, err
	}
	return s.loadOwned(ctx, actor, op, planID, userID, "Not authorized to view this workout plan")
}

// List returns every plan owned by userID. Only the user's existence is checked.
func (s *WorkoutPlanService) List(ctx context.Context, actor access.Actor, userID int64) ([]WorkoutPlan, error) {
	if err := requireRole(actor, access.WorkoutPlanList); err != nil {
		return nil, err
	}
	owner, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, notFound(MsgUserNotFound)
	}
	return s.plans.ListByOwner(ctx, owner.ID)
}

func (s *WorkoutPlanService) loadOwned(ctx context.Context, actor access.Actor, op access.Operation, planID, userID int64, denied string) (*WorkoutPlan, error) {
	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, notFound(MsgWorkoutPlanNotFound)
	}
	if err := requireScope(op, userID, plan.Owner.ID, denied); err != nil {
		return nil, err
	}
	if err := requireOwner(actor, op, plan.Owner.ID, denied); err != nil {
		return nil, err
	}
	return plan, nil
}

func workoutPlanPayload(p *WorkoutPlan) events.WorkoutPlan {
	return events.WorkoutPlan{
		WorkoutPlanID: p.ID,
		UserID:        p.Owner.ID,
		Title:         p.Title,
		Description:   p.Description,
		DurationMin:   p.DurationMin,
		CreatedAt:     p.CreatedAt,
	}
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
