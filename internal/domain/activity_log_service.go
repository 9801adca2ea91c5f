package domain

import (
	"context"
	"log/slog"
	"strings"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/events"
)

// CreateActivityLogInput carries a new activity log.
type CreateActivityLogInput struct {
	ActivityType   string
	CaloriesBurned int
	DurationMin    int
}

// UpdateActivityLogInput carries a partial update. A non-nil WorkoutPlanID
// moves the log to that plan.
type UpdateActivityLogInput struct {
	ActivityType   *string
	CaloriesBurned *int
	DurationMin    *int
	WorkoutPlanID  *int64
}

// ActivityLogService manages activity logs scoped to their owner.
type ActivityLogService struct {
	users  UserRepository
	plans  WorkoutPlanRepository
	logs   ActivityLogRepository
	outbox OutboxWriter
	tx     TransactionManager
	logger *slog.Logger
}

// NewActivityLogService constructs an ActivityLogService.
func NewActivityLogService(store Store, logger *slog.Logger) *ActivityLogService {
	return &ActivityLogService{
		users:  store.Users,
		plans:  store.WorkoutPlans,
		logs:   store.ActivityLogs,
		outbox: store.Outbox,
		tx:     store.Tx,
		logger: logger,
	}
}

// Create records an activity for userID against one of the user's plans.
func (s *ActivityLogService) Create(ctx context.Context, actor access.Actor, userID, planID int64, in CreateActivityLogInput) (*ActivityLog, error) {
	const op = access.ActivityLogCreate
	if err := requireRole(actor, op); err != nil {
		return nil, err
	}

	var log *ActivityLog
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		user, err := s.users.Get(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound(MsgUserNotFound)
		}
		plan, err := s.loadPlan(ctx, planID)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, op, user.ID, MsgLogNotOwned); err != nil {
			return err
		}
		if err := requireScope(op, user.ID, plan.Owner.ID, MsgPlanNotOwned); err != nil {
			return err
		}

		fields := activityLogFields{
			ActivityType:   strings.TrimSpace(in.ActivityType),
			CaloriesBurned: in.CaloriesBurned,
			DurationMin:    in.DurationMin,
		}
		if err := fields.Validate(); err != nil {
			return NewValidationError(err)
		}

		log = &ActivityLog{
			ActivityType:   fields.ActivityType,
			CaloriesBurned: fields.CaloriesBurned,
			DurationMin:    fields.DurationMin,
			CreatedAt:      nowUTC(),
			User:           user.Summary(),
			WorkoutPlan:    plan.Summary(),
		}
		if err := s.logs.Create(ctx, log); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.NewRecord(events.ActivityLogCreated, log.ID, user.ID, activityLogPayload(log)))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("activity log created",
		"activity_log_id", log.ID,
		"user_id", userID,
		"workout_plan_id", planID,
		"actor_id", actor.ID,
	)
	return log, nil
}

// Update changes the fields present in the input and optionally reassigns the plan.
func (s *ActivityLogService) Update(ctx context.Context, actor access.Actor, logID, userID int64, in UpdateActivityLogInput) (*ActivityLog, error) {
	const op = access.ActivityLogUpdate
	if err := requireRole(actor, op); err != nil {
		return nil, err
	}

	var log *ActivityLog
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		log, err = s.loadOwned(ctx, actor, op, logID, userID)
		if err != nil {
			return err
		}

		if in.WorkoutPlanID != nil {
			plan, err := s.loadPlan(ctx, *in.WorkoutPlanID)
			if err != nil {
				return err
			}
			if err := requireScope(op, log.User.ID, plan.Owner.ID, MsgPlanNotOwned); err != nil {
				return err
			}
			log.WorkoutPlan = plan.Summary()
		}
		if in.ActivityType != nil {
			log.ActivityType = strings.TrimSpace(*in.ActivityType)
		}
		if in.CaloriesBurned != nil {
			log.CaloriesBurned = *in.CaloriesBurned
		}
		if in.DurationMin != nil {
			log.DurationMin = *in.DurationMin
		}
		fields := activityLogFields{
			ActivityType:   log.ActivityType,
			CaloriesBurned: log.CaloriesBurned,
			DurationMin:    log.DurationMin,
		}
		if err := fields.Validate(); err != nil {
			return NewValidationError(err)
		}

		if err := s.logs.Update(ctx, log); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.NewRecord(events.ActivityLogUpdated, log.ID, log.User.ID, activityLogPayload(log)))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("activity log updated", "activity_log_id", log.ID, "user_id", userID, "actor_id", actor.ID)
	return log, nil
}

// Delete removes an activity log.
func (s *ActivityLogService) Delete(ctx context.Context, actor access.Actor, logID, userID int64) error {
	const op = access.ActivityLogDelete
	if err := requireRole(actor, op); err != nil {
		return err
	}

	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		log, err := s.loadOwned(ctx, actor, op, logID, userID)
		if err != nil {
			return err
		}
		if err := s.logs.Delete(ctx, log.ID); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.NewRecord(events.ActivityLogDeleted, log.ID, log.User.ID, events.Deleted{
			ID:        log.ID,
			UserID:    log.User.ID,
			DeletedAt: nowUTC(),
		}))
	})
	if err != nil {
		return err
	}

	s.logger.Info("activity log deleted", "activity_log_id", logID, "user_id", userID, "actor_id", actor.ID)
	return nil
}

// Get returns a log addressed through its owner.
func (s *ActivityLogService) Get(ctx context.Context, actor access.Actor, logID, userID int64) (*ActivityLog, error) {
	const op = access.ActivityLogGet
	if err := requireRole(actor, op); err != nil {
		return nil, err
	}
	return s.loadOwned(ctx, actor, op, logID, userID)
}

// ListByUser returns the logs recorded for userID.
func (s *ActivityLogService) ListByUser(ctx context.Context, actor access.Actor, userID int64) ([]ActivityLog, error) {
	if err := requireRole(actor, access.ActivityLogListByUser); err != nil {
		return nil, err
	}
	return s.logs.ListByUser(ctx, userID)
}

// ListByWorkoutPlan returns the logs recorded against planID.
func (s *ActivityLogService) ListByWorkoutPlan(ctx context.Context, actor access.Actor, planID int64) ([]ActivityLog, error) {
	if err := requireRole(actor, access.ActivityLogListByPlan); err != nil {
		return nil, err
	}
	return s.logs.ListByWorkoutPlan(ctx, planID)
}

func (s *ActivityLogService) loadPlan(ctx context.Context, planID int64) (*WorkoutPlan, error) {
	plan, err := s.plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, notFound(MsgWorkoutPlanNotFound)
	}
	return plan, nil
}

func (s *ActivityLogService) loadOwned(ctx context.Context, actor access.Actor, op access.Operation, logID, userID int64) (*ActivityLog, error) {
	log, err := s.logs.Get(ctx, logID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, notFound(MsgActivityLogNotFound)
	}
	if err := requireScope(op, userID, log.User.ID, MsgLogNotOwned); err != nil {
		return nil, err
	}
	if err := requireOwner(actor, op, log.User.ID, MsgLogNotOwned); err != nil {
		return nil, err
	}
	return log, nil
}

func activityLogPayload(l *ActivityLog) events.ActivityLog {
	return events.ActivityLog{
		ActivityLogID:  l.ID,
		UserID:         l.User.ID,
		WorkoutPlanID:  l.WorkoutPlan.ID,
		ActivityType:   l.ActivityType,
		CaloriesBurned: l.CaloriesBurned,
		DurationMin:    l.DurationMin,
		CreatedAt:      l.CreatedAt,
	}
}
