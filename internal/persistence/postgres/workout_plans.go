package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

// WorkoutPlanRepository stores plans in the workout_plans table.
type WorkoutPlanRepository struct {
	pool *pgxpool.Pool
}

// NewWorkoutPlanRepository constructs a WorkoutPlanRepository.
func NewWorkoutPlanRepository(pool *pgxpool.Pool) *WorkoutPlanRepository {
	return &WorkoutPlanRepository{pool: pool}
}

const planSelect = `SELECT p.id, p.title, p.description, p.duration_min, p.created_at, u.id, u.name, u.role
        FROM workout_plans p JOIN users u ON u.id = p.user_id`

func (r *WorkoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) error {
	const stmt = `INSERT INTO workout_plans (user_id, title, description, duration_min, created_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := executor(ctx, r.pool).QueryRow(ctx, stmt,
		plan.Owner.ID,
		plan.Title,
		plan.Description,
		plan.DurationMin,
		plan.CreatedAt,
	).Scan(&plan.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.NotFoundError{Message: domain.MsgUserNotFound}
		}
		return fmt.Errorf("insert workout plan: %w", err)
	}
	return nil
}

func (r *WorkoutPlanRepository) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	const stmt = `UPDATE workout_plans SET title = $2, description = $3, duration_min = $4 WHERE id = $1`
	tag, err := executor(ctx, r.pool).Exec(ctx, stmt, plan.ID, plan.Title, plan.Description, plan.DurationMin)
	if err != nil {
		return fmt.Errorf("update workout plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: domain.MsgWorkoutPlanNotFound}
	}
	return nil
}

func (r *WorkoutPlanRepository) Delete(ctx context.Context, id int64) error {
	if _, err := executor(ctx, r.pool).Exec(ctx, `DELETE FROM workout_plans WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ConflictError{Message: "Workout plan still has activity logs"}
		}
		return fmt.Errorf("delete workout plan: %w", err)
	}
	return nil
}

func (r *WorkoutPlanRepository) Get(ctx context.Context, id int64) (*domain.WorkoutPlan, error) {
	query := planSelect + ` WHERE p.id = $1` + lockSuffix(ctx, "p")
	plan, err := scanPlan(executor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workout plan: %w", err)
	}
	return &plan, nil
}

func (r *WorkoutPlanRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	rows, err := executor(ctx, r.pool).Query(ctx, planSelect+` WHERE p.user_id = $1 ORDER BY p.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list workout plans: %w", err)
	}
	defer rows.Close()

	plans := make([]domain.WorkoutPlan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func scanPlan(row pgx.Row) (domain.WorkoutPlan, error) {
	var p domain.WorkoutPlan
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.DurationMin, &p.CreatedAt, &p.Owner.ID, &p.Owner.Name, &p.Owner.Role)
	return p, err
}
