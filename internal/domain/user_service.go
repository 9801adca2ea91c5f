package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/events"
)

// CreateUserInput carries a new account. An empty Role defaults to USER.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries a partial profile update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// UserService manages accounts. It applies the role gate only; ownership is not
// checked for user self-management.
type UserService struct {
	users  UserRepository
	outbox OutboxWriter
	tx     TransactionManager
	hasher PasswordHasher
	logger *slog.Logger
}

// NewUserService constructs a UserService.
func NewUserService(store Store, hasher PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{
		users:  store.Users,
		outbox: store.Outbox,
		tx:     store.Tx,
		hasher: hasher,
		logger: logger,
	}
}

// Create registers a user with a hashed password.
func (s *UserService) Create(ctx context.Context, actor access.Actor, in CreateUserInput) (*User, error) {
	if err := requireRole(actor, access.UserCreate); err != nil {
		return nil, err
	}

	fields := userFields{
		Name:          strings.TrimSpace(in.Name),
		Email:         normalizeEmail(in.Email),
		Password:      in.Password,
		Role:          strings.ToUpper(strings.TrimSpace(in.Role)),
		checkPassword: true,
	}
	if fields.Role == "" {
		fields.Role = string(access.RoleUser)
	}
	if err := fields.Validate(); err != nil {
		return nil, NewValidationError(err)
	}

	user := &User{Name: fields.Name, Email: fields.Email, Role: access.Role(fields.Role)}
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.ensureEmailFree(ctx, user.Email, 0); err != nil {
			return err
		}
		hash, err := s.hasher.Hash(fields.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.NewRecord(events.UserCreated, user.ID, user.ID, userPayload(user)))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role, "actor_id", actor.ID)
	return user, nil
}

// Update overwrites the fields present in the input.
func (s *UserService) Update(ctx context.Context, actor access.Actor, id int64, in UpdateUserInput) (*User, error) {
	if err := requireRole(actor, access.UserUpdate); err != nil {
		return nil, err
	}

	var updated *User
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		user, err := s.users.Get(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound(MsgUserNotFound)
		}

		fields := userFields{Name: user.Name, Email: user.Email, Role: string(user.Role)}
		if in.Name != nil {
			fields.Name = strings.TrimSpace(*in.Name)
		}
		if in.Email != nil {
			fields.Email = normalizeEmail(*in.Email)
		}
		if in.Password != nil {
			fields.Password = *in.Password
			fields.checkPassword = true
		}
		if in.Role != nil {
			fields.Role = strings.ToUpper(strings.TrimSpace(*in.Role))
		}
		if err := fields.Validate(); err != nil {
			return NewValidationError(err)
		}

		if fields.Email != user.Email {
			if err := s.ensureEmailFree(ctx, fields.Email, user.ID); err != nil {
				return err
			}
		}
		if fields.checkPassword {
			hash, err := s.hasher.Hash(fields.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hash
		}
		user.Name = fields.Name
		user.Email = fields.Email
		user.Role = access.Role(fields.Role)

		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return s.outbox.Append(ctx, events.NewRecord(events.UserUpdated, user.ID, user.ID, userPayload(user)))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", updated.ID, "actor_id", actor.ID)
	return updated, nil
}

// Delete removes a user. Users that still own plans or activity logs cannot be deleted.
func (s *UserService) Delete(ctx context.Context, actor access.Actor, id int64) error {
	if err := requireRole(actor, access.UserDelete); err != nil {
		return err
	}

	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		user, err := s.users.Get(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound(MsgUserNotFound)
		}
		if err := s.users.Delete(ctx, id); err != nil {
			return err
		}
		return s.outbox.Append(ctx, events.NewRecord(events.UserDeleted, id, id, events.Deleted{
			ID:        id,
			UserID:    id,
			DeletedAt: nowUTC(),
		}))
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", id, "actor_id", actor.ID)
	return nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, actor access.Actor, id int64) (*User, error) {
	if err := requireRole(actor, access.UserGet); err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound(MsgUserNotFound)
	}
	return user, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context, actor access.Actor) ([]User, error) {
	if err := requireRole(actor, access.UserList); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Authenticate verifies an email and password pair.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || s.hasher.Compare(user.PasswordHash, password) != nil {
		s.logger.Debug("login rejected", "email", email)
		return nil, &UnauthenticatedError{Message: "Invalid email or password"}
	}
	return user, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return &ConflictError{Message: MsgEmailTaken}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userPayload(u *User) events.User {
	return events.User{UserID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}
