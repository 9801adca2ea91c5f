package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

// UserRepository stores users in the users table.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	const stmt = `INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`
	err := executor(ctx, r.pool).QueryRow(ctx, stmt, user.Name, user.Email, user.PasswordHash, user.Role).Scan(&user.ID)
	if err != nil {
		if isDuplicate(err) {
			return &domain.ConflictError{Message: domain.MsgEmailTaken}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	const stmt = `UPDATE users SET name = $2, email = $3, password_hash = $4, role = $5, updated_at = NOW() WHERE id = $1`
	tag, err := executor(ctx, r.pool).Exec(ctx, stmt, user.ID, user.Name, user.Email, user.PasswordHash, user.Role)
	if err != nil {
		if isDuplicate(err) {
			return &domain.ConflictError{Message: domain.MsgEmailTaken}
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: domain.MsgUserNotFound}
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if _, err := executor(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ConflictError{Message: "User still owns workout plans or activity logs"}
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1` + lockSuffix(ctx, "u")
	return r.scanOne(executor(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1`
	return r.scanOne(executor(ctx, r.pool).QueryRow(ctx, query, email))
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := executor(ctx, r.pool).Query(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) CountByRole(ctx context.Context, role access.Role) (int, error) {
	var n int
	if err := executor(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
