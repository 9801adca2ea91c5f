// Package seed bootstraps the users a fresh deployment needs.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

// DefaultAdmin is created when no ADMIN exists and the seed file names none.
var DefaultAdmin = User{
	Name:     "System Admin",
	Email:    "admin@fitnesstracker.com",
	Password: "Admin@123",
	Role:     string(access.RoleAdmin),
}

// system is the actor seeding runs as. It never maps to a stored user.
var system = access.Actor{Role: access.RoleAdmin}

// User is one seeded account.
type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// File is the YAML seed document.
type File struct {
	Admin *User  `yaml:"admin"`
	Users []User `yaml:"users"`
}

// Load parses a seed file. An empty path yields an empty File.
func Load(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read seed file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return f, nil
}

// Seeder creates bootstrap users through the user service.
type Seeder struct {
	users   domain.UserRepository
	service *domain.UserService
	logger  *slog.Logger
}

// NewSeeder builds a Seeder.
func NewSeeder(users domain.UserRepository, service *domain.UserService, logger *slog.Logger) *Seeder {
	return &Seeder{users: users, service: service, logger: logger}
}

// Run ensures an admin exists and then creates the file's users. Users whose
// email is already registered are skipped.
func (s *Seeder) Run(ctx context.Context, f File) error {
	if err := s.EnsureAdmin(ctx, f.Admin); err != nil {
		return err
	}
	for _, u := range f.Users {
		if _, err := s.create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

// EnsureAdmin creates admin (or DefaultAdmin when nil) if no ADMIN user exists.
func (s *Seeder) EnsureAdmin(ctx context.Context, admin *User) error {
	count, err := s.users.CountByRole(ctx, access.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		s.logger.Debug("admin already present", "count", count)
		return nil
	}

	u := DefaultAdmin
	if admin != nil {
		u = *admin
		u.Role = string(access.RoleAdmin)
	}
	created, err := s.create(ctx, u)
	if err != nil {
		return err
	}
	if created != nil {
		s.logger.Info("admin user created", "user_id", created.ID, "email", created.Email)
	}
	return nil
}

func (s *Seeder) create(ctx context.Context, u User) (*domain.User, error) {
	created, err := s.service.Create(ctx, system, domain.CreateUserInput{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Role:     u.Role,
	})
	if errors.Is(err, domain.ErrConflict) {
		s.logger.Debug("seed user exists", "email", u.Email)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("seed user %s: %w", u.Email, err)
	}
	return created, nil
}
