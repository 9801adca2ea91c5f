package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

// ActivityLogRepository stores logs in the activity_logs table.
type ActivityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository constructs an ActivityLogRepository.
func NewActivityLogRepository(pool *pgxpool.Pool) *ActivityLogRepository {
	return &ActivityLogRepository{pool: pool}
}

const logSelect = `SELECT l.id, l.activity_type, l.calories_burned, l.duration_min, l.created_at,
            u.id, u.name, u.role, p.id, p.title, p.user_id
        FROM activity_logs l
        JOIN users u ON u.id = l.user_id
        JOIN workout_plans p ON p.id = l.workout_plan_id`

func (r *ActivityLogRepository) Create(ctx context.Context, log *domain.ActivityLog) error {
	const stmt = `INSERT INTO activity_logs (user_id, workout_plan_id, activity_type, calories_burned, duration_min, created_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := executor(ctx, r.pool).QueryRow(ctx, stmt,
		log.User.ID,
		log.WorkoutPlan.ID,
		log.ActivityType,
		log.CaloriesBurned,
		log.DurationMin,
		log.CreatedAt,
	).Scan(&log.ID)
	if err != nil {
		if refErr := activityLogReferenceError(err); refErr != nil {
			return refErr
		}
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *ActivityLogRepository) Update(ctx context.Context, log *domain.ActivityLog) error {
	const stmt = `UPDATE activity_logs
        SET activity_type = $2, calories_burned = $3, duration_min = $4, workout_plan_id = $5
        WHERE id = $1`
	tag, err := executor(ctx, r.pool).Exec(ctx, stmt, log.ID, log.ActivityType, log.CaloriesBurned, log.DurationMin, log.WorkoutPlan.ID)
	if err != nil {
		if refErr := activityLogReferenceError(err); refErr != nil {
			return refErr
		}
		return fmt.Errorf("update activity log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: domain.MsgActivityLogNotFound}
	}
	return nil
}

func (r *ActivityLogRepository) Delete(ctx context.Context, id int64) error {
	if _, err := executor(ctx, r.pool).Exec(ctx, `DELETE FROM activity_logs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete activity log: %w", err)
	}
	return nil
}

func (r *ActivityLogRepository) Get(ctx context.Context, id int64) (*domain.ActivityLog, error) {
	query := logSelect + ` WHERE l.id = $1` + lockSuffix(ctx, "l")
	log, err := scanLog(executor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activity log: %w", err)
	}
	return &log, nil
}

func (r *ActivityLogRepository) ListByUser(ctx context.Context, userID int64) ([]domain.ActivityLog, error) {
	return r.list(ctx, logSelect+` WHERE l.user_id = $1 ORDER BY l.id`, userID)
}

func (r *ActivityLogRepository) ListByWorkoutPlan(ctx context.Context, planID int64) ([]domain.ActivityLog, error) {
	return r.list(ctx, logSelect+` WHERE l.workout_plan_id = $1 ORDER BY l.id`, planID)
}

func (r *ActivityLogRepository) list(ctx context.Context, query string, arg int64) ([]domain.ActivityLog, error) {
	rows, err := executor(ctx, r.pool).Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.ActivityLog, 0)
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func scanLog(row pgx.Row) (domain.ActivityLog, error) {
	var l domain.ActivityLog
	err := row.Scan(
		&l.ID,
		&l.ActivityType,
		&l.CaloriesBurned,
		&l.DurationMin,
		&l.CreatedAt,
		&l.User.ID,
		&l.User.Name,
		&l.User.Role,
		&l.WorkoutPlan.ID,
		&l.WorkoutPlan.Title,
		&l.WorkoutPlan.OwnerID,
	)
	return l, err
}
