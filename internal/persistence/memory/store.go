// Package memory provides an in-process persistence gateway for local development
// and tests. It enforces the same constraints as the postgres gateway: unique
// email, restrict-on-delete references and atomic transactions.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
	"github.com/HarshShiyani/fitness-tracker/internal/events"
)

type planRecord struct {
	id          int64
	title       string
	description string
	durationMin int
	createdAt   time.Time
	ownerID     int64
}

type logRecord struct {
	id             int64
	activityType   string
	caloriesBurned int
	durationMin    int
	createdAt      time.Time
	userID         int64
	planID         int64
}

type tables struct {
	users  map[int64]domain.User
	plans  map[int64]planRecord
	logs   map[int64]logRecord
	outbox []events.Record
	seq    struct{ users, plans, logs int64 }
}

func (t *tables) clone() *tables {
	c := &tables{
		users:  make(map[int64]domain.User, len(t.users)),
		plans:  make(map[int64]planRecord, len(t.plans)),
		logs:   make(map[int64]logRecord, len(t.logs)),
		outbox: append([]events.Record(nil), t.outbox...),
		seq:    t.seq,
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.plans {
		c.plans[k] = v
	}
	for k, v := range t.logs {
		c.logs[k] = v
	}
	return c
}

// Store holds every table behind a single lock. Transactions are serialized.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *tables
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{data: &tables{
		users: make(map[int64]domain.User),
		plans: make(map[int64]planRecord),
		logs:  make(map[int64]logRecord),
	}}
}

// Domain returns the repositories backed by this store.
func (s *Store) Domain() domain.Store {
	return domain.Store{
		Users:        userRepository{s},
		WorkoutPlans: workoutPlanRepository{s},
		ActivityLogs: activityLogRepository{s},
		Outbox:       outboxWriter{s},
		Tx:           s,
	}
}

// ExecTx runs fn with exclusive access and restores the previous state if fn fails.
func (s *Store) ExecTx(ctx context.Context, fn domain.TxFn) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Events returns a copy of every recorded outbox entry, oldest first.
func (s *Store) Events() []events.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.Record(nil), s.data.outbox...)
}

func (s *Store) userSummary(id int64) domain.UserSummary {
	u := s.data.users[id]
	return u.Summary()
}

func (s *Store) toPlan(rec planRecord) domain.WorkoutPlan {
	return domain.WorkoutPlan{
		ID:          rec.id,
		Title:       rec.title,
		Description: rec.description,
		DurationMin: rec.durationMin,
		CreatedAt:   rec.createdAt,
		Owner:       s.userSummary(rec.ownerID),
	}
}

func (s *Store) toLog(rec logRecord) domain.ActivityLog {
	plan := s.data.plans[rec.planID]
	return domain.ActivityLog{
		ID:             rec.id,
		ActivityType:   rec.activityType,
		CaloriesBurned: rec.caloriesBurned,
		DurationMin:    rec.durationMin,
		CreatedAt:      rec.createdAt,
		User:           s.userSummary(rec.userID),
		WorkoutPlan:    domain.WorkoutPlanSummary{ID: plan.id, Title: plan.title, OwnerID: plan.ownerID},
	}
}

type userRepository struct{ s *Store }

func (r userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(user.Email, 0) {
		return &domain.ConflictError{Message: domain.MsgEmailTaken}
	}
	r.s.data.seq.users++
	user.ID = r.s.data.seq.users
	r.s.data.users[user.ID] = *user
	return nil
}

func (r userRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.users[user.ID]; !ok {
		return &domain.NotFoundError{Message: domain.MsgUserNotFound}
	}
	if r.emailTaken(user.Email, user.ID) {
		return &domain.ConflictError{Message: domain.MsgEmailTaken}
	}
	r.s.data.users[user.ID] = *user
	return nil
}

func (r userRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.data.plans {
		if p.ownerID == id {
			return &domain.ConflictError{Message: "User still owns workout plans"}
		}
	}
	for _, l := range r.s.data.logs {
		if l.userID == id {
			return &domain.ConflictError{Message: "User still has activity logs"}
		}
	}
	delete(r.s.data.users, id)
	return nil
}

func (r userRepository) Get(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r userRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.data.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepository) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.User, 0, len(r.s.data.users))
	for _, user := range r.s.data.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r userRepository) CountByRole(_ context.Context, role access.Role) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, user := range r.s.data.users {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

func (r userRepository) emailTaken(email string, selfID int64) bool {
	for _, user := range r.s.data.users {
		if user.Email == email && user.ID != selfID {
			return true
		}
	}
	return false
}

type workoutPlanRepository struct{ s *Store }

func (r workoutPlanRepository) Create(_ context.Context, plan *domain.WorkoutPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.users[plan.Owner.ID]; !ok {
		return &domain.NotFoundError{Message: domain.MsgUserNotFound}
	}
	r.s.data.seq.plans++
	plan.ID = r.s.data.seq.plans
	r.s.data.plans[plan.ID] = planRecord{
		id:          plan.ID,
		title:       plan.Title,
		description: plan.Description,
		durationMin: plan.DurationMin,
		createdAt:   plan.CreatedAt,
		ownerID:     plan.Owner.ID,
	}
	return nil
}

func (r workoutPlanRepository) Update(_ context.Context, plan *domain.WorkoutPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.data.plans[plan.ID]
	if !ok {
		return &domain.NotFoundError{Message: domain.MsgWorkoutPlanNotFound}
	}
	rec.title = plan.Title
	rec.description = plan.Description
	rec.durationMin = plan.DurationMin
	r.s.data.plans[plan.ID] = rec
	return nil
}

func (r workoutPlanRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.data.logs {
		if l.planID == id {
			return &domain.ConflictError{Message: "Workout plan still has activity logs"}
		}
	}
	delete(r.s.data.plans, id)
	return nil
}

func (r workoutPlanRepository) Get(_ context.Context, id int64) (*domain.WorkoutPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.data.plans[id]
	if !ok {
		return nil, nil
	}
	plan := r.s.toPlan(rec)
	return &plan, nil
}

func (r workoutPlanRepository) ListByOwner(_ context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.WorkoutPlan, 0)
	for _, rec := range r.s.data.plans {
		if rec.ownerID == userID {
			out = append(out, r.s.toPlan(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type activityLogRepository struct{ s *Store }

func (r activityLogRepository) Create(_ context.Context, log *domain.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.users[log.User.ID]; !ok {
		return &domain.NotFoundError{Message: domain.MsgUserNotFound}
	}
	if _, ok := r.s.data.plans[log.WorkoutPlan.ID]; !ok {
		return &domain.NotFoundError{Message: domain.MsgWorkoutPlanNotFound}
	}
	r.s.data.seq.logs++
	log.ID = r.s.data.seq.logs
	r.s.data.logs[log.ID] = logRecord{
		id:             log.ID,
		activityType:   log.ActivityType,
		caloriesBurned: log.CaloriesBurned,
		durationMin:    log.DurationMin,
		createdAt:      log.CreatedAt,
		userID:         log.User.ID,
		planID:         log.WorkoutPlan.ID,
	}
	return nil
}

func (r activityLogRepository) Update(_ context.Context, log *domain.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.data.logs[log.ID]
	if !ok {
		return &domain.NotFoundError{Message: domain.MsgActivityLogNotFound}
	}
	if _, ok := r.s.data.plans[log.WorkoutPlan.ID]; !ok {
		return &domain.NotFoundError{Message: domain.MsgWorkoutPlanNotFound}
	}
	rec.activityType = log.ActivityType
	rec.caloriesBurned = log.CaloriesBurned
	rec.durationMin = log.DurationMin
	rec.planID = log.WorkoutPlan.ID
	r.s.data.logs[log.ID] = rec
	return nil
}

func (r activityLogRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.data.logs, id)
	return nil
}

func (r activityLogRepository) Get(_ context.Context, id int64) (*domain.ActivityLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.data.logs[id]
	if !ok {
		return nil, nil
	}
	log := r.s.toLog(rec)
	return &log, nil
}

func (r activityLogRepository) ListByUser(_ context.Context, userID int64) ([]domain.ActivityLog, error) {
	return r.list(func(rec logRecord) bool { return rec.userID == userID }), nil
}

func (r activityLogRepository) ListByWorkoutPlan(_ context.Context, planID int64) ([]domain.ActivityLog, error) {
	return r.list(func(rec logRecord) bool { return rec.planID == planID }), nil
}

func (r activityLogRepository) list(match func(logRecord) bool) []domain.ActivityLog {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.ActivityLog, 0)
	for _, rec := range r.s.data.logs {
		if match(rec) {
			out = append(out, r.s.toLog(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type outboxWriter struct{ s *Store }

func (w outboxWriter) Append(_ context.Context, record events.Record) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	w.s.data.outbox = append(w.s.data.outbox, record)
	return nil
}
