package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// GroupIDByName resolves a user_groups row by name.
func (r *UserRepo) GroupIDByName(ctx context.Context, name string) (uint64, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM user_groups WHERE name=? LIMIT 1", name).Scan(&id)
	return id, err
}

// Create inserts an inactive user into the given group and returns its ID.
// The password must already be hashed by the caller.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string, groupID uint64) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, group_id, is_active) VALUES (?,?,?,0)",
		email, passwordHash, groupID)
	if err != nil {
		if isDuplicateErr(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const userColumns = `u.id, u.email, u.password_hash, u.group_id, g.name, u.is_active, u.created_at, u.updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.GroupID, &u.GroupName,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByEmail fetches a user (with its group name) by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users u JOIN user_groups g ON g.id=u.group_id WHERE u.email=? LIMIT 1",
		email))
}

// GetByID fetches a user (with its group name) by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users u JOIN user_groups g ON g.id=u.group_id WHERE u.id=? LIMIT 1",
		id))
}

// Activate flips the is_active flag. Missing users map to sql.ErrNoRows.
func (r *UserRepo) Activate(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=1 WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
	return err
}

// ChangeGroup moves a user into another group.
func (r *UserRepo) ChangeGroup(ctx context.Context, id, groupID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET group_id=? WHERE id=?", groupID, id)
	return err
}
