//go:build integration

package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
	"github.com/HarshShiyani/fitness-tracker/internal/events"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60*time.Second)),
		postgrescontainer.WithDatabase("fitness"),
		postgrescontainer.WithUsername("tracker"),
		postgrescontainer.WithPassword("tracker"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := CreateConnectionPool(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "migrations must be re-runnable")
	return pool
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

func TestGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(pool, logger)

	owner := &domain.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "hash", Role: access.RoleUser}
	require.NoError(t, store.Users.Create(ctx, owner))
	require.NotZero(t, owner.ID)

	dup := &domain.User{Name: "Other", Email: "jane@example.com", PasswordHash: "hash", Role: access.RoleUser}
	require.ErrorIs(t, store.Users.Create(ctx, dup), domain.ErrConflict)

	plan := &domain.WorkoutPlan{Title: "Cardio Plan", DurationMin: 30, CreatedAt: time.Now().UTC().Truncate(time.Microsecond), Owner: owner.Summary()}
	require.NoError(t, store.WorkoutPlans.Create(ctx, plan))

	log := &domain.ActivityLog{ActivityType: "Running", CaloriesBurned: 200, DurationMin: 30, CreatedAt: plan.CreatedAt, User: owner.Summary(), WorkoutPlan: plan.Summary()}
	require.NoError(t, store.ActivityLogs.Create(ctx, log))

	orphan := &domain.ActivityLog{ActivityType: "Rowing", CaloriesBurned: 100, DurationMin: 10, CreatedAt: plan.CreatedAt, User: domain.UserSummary{ID: 9999}, WorkoutPlan: plan.Summary()}
	err := store.ActivityLogs.Create(ctx, orphan)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.EqualError(t, err, domain.MsgUserNotFound)

	orphan = &domain.ActivityLog{ActivityType: "Rowing", CaloriesBurned: 100, DurationMin: 10, CreatedAt: plan.CreatedAt, User: owner.Summary(), WorkoutPlan: domain.WorkoutPlanSummary{ID: 9999}}
	err = store.ActivityLogs.Create(ctx, orphan)
	require.EqualError(t, err, domain.MsgWorkoutPlanNotFound)

	got, err := store.ActivityLogs.Get(ctx, log.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane", got.User.Name)
	require.Equal(t, "Cardio Plan", got.WorkoutPlan.Title)
	require.Equal(t, owner.ID, got.WorkoutPlan.OwnerID)

	plans, err := store.WorkoutPlans.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.True(t, plan.CreatedAt.Equal(plans[0].CreatedAt))

	require.ErrorIs(t, store.Users.Delete(ctx, owner.ID), domain.ErrConflict)
	require.ErrorIs(t, store.WorkoutPlans.Delete(ctx, plan.ID), domain.ErrConflict)

	missing, err := store.WorkoutPlans.Get(ctx, 9999)
	require.NoError(t, err)
	require.Nil(t, missing)

	admins, err := store.Users.CountByRole(ctx, access.RoleAdmin)
	require.NoError(t, err)
	require.Zero(t, admins)
}

func TestTransactionRollsBackOutbox(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(pool, logger)

	err := store.Tx.ExecTx(ctx, func(ctx context.Context) error {
		user := &domain.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "hash", Role: access.RoleUser}
		if err := store.Users.Create(ctx, user); err != nil {
			return err
		}
		if err := store.Outbox.Append(ctx, events.NewRecord(events.UserCreated, user.ID, user.ID, events.User{UserID: user.ID})); err != nil {
			return err
		}
		return &domain.ValidationError{Message: "abort"}
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	users, err := store.Users.List(ctx)
	require.NoError(t, err)
	require.Empty(t, users)

	pending, err := NewOutboxRepository(pool).Pending(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestOutboxPendingAndMark(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	source := NewRelaySource(pool, logger)

	record := events.NewRecord(events.WorkoutPlanCreated, 10, 1, events.WorkoutPlan{WorkoutPlanID: 10, UserID: 1, Title: "Cardio"})
	require.NoError(t, source.Append(ctx, record))

	var claimed []int64
	require.NoError(t, source.ExecTx(ctx, func(ctx context.Context) error {
		pending, err := source.Pending(ctx, 10)
		if err != nil {
			return err
		}
		require.Len(t, pending, 1)
		require.Equal(t, record.ID, pending[0].EventID)
		require.Equal(t, "workout_plan_events", pending[0].Topic)
		require.JSONEq(t, `{"workout_plan_id":10,"user_id":1,"title":"Cardio","duration_min":0,"created_at":"0001-01-01T00:00:00Z"}`, string(pending[0].Payload))
		claimed = append(claimed, pending[0].ID)
		return source.MarkFailed(ctx, claimed, "broker down")
	}))

	pending, err := source.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, source.MarkPublished(ctx, claimed))
	pending, err = source.Pending(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)
}
