package seed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
	"github.com/HarshShiyani/fitness-tracker/internal/persistence/memory"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func newSeeder() (*Seeder, domain.Store) {
	store := memory.NewStore().Domain()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSeeder(store.Users, domain.NewUserService(store, plainHasher{}, logger), logger), store
}

func TestEnsureAdminCreatesDefaultOnce(t *testing.T) {
	ctx := context.Background()
	seeder, store := newSeeder()

	require.NoError(t, seeder.EnsureAdmin(ctx, nil))
	require.NoError(t, seeder.EnsureAdmin(ctx, nil))

	count, err := store.Users.CountByRole(ctx, access.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	admin, err := store.Users.FindByEmail(ctx, DefaultAdmin.Email)
	require.NoError(t, err)
	require.NotNil(t, admin)
	require.Equal(t, "System Admin", admin.Name)
	require.Equal(t, "hashed:Admin@123", admin.PasswordHash)
}

func TestRunWithFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
admin:
  name: Ops Admin
  email: ops@example.com
  password: Secret@12
users:
  - name: Alice
    email: alice@example.com
    password: Password@1
    role: USER
  - name: Alice Again
    email: ALICE@example.com
    password: Password@1
`), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, f.Admin)
	require.Len(t, f.Users, 2)

	seeder, store := newSeeder()
	require.NoError(t, seeder.Run(ctx, f))

	users, err := store.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "ops@example.com", users[0].Email)
	require.Equal(t, access.RoleAdmin, users[0].Role)
	require.Equal(t, "Alice", users[1].Name)
}

func TestRunRejectsInvalidUser(t *testing.T) {
	seeder, _ := newSeeder()
	err := seeder.Run(context.Background(), File{Users: []User{{Name: "Weak", Email: "weak@example.com", Password: "short"}}})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoadEmptyPath(t *testing.T) {
	f, err := Load("")
	require.NoError(t, err)
	require.Nil(t, f.Admin)
	require.Empty(t, f.Users)
}
