package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
)

// UserRepo persists application users.  Uniqueness of username, email
// and full name is checked case-insensitively before insert and backed
// by unique indexes; duplicate-key races surface as the corresponding
// sentinel errors.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, username, email, full_name, password_hash, role, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var fullName sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &fullName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if fullName.Valid {
		u.FullName = fullName.String
	}
	return u, err
}

// Create inserts a user and returns its ID.  The caller supplies an
// already-hashed password.  Username and email are normalized to lower
// case before checking for collisions.
func (r *UserRepo) Create(ctx context.Context, username, email, fullName, passwordHash, role string) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	var exists int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE LOWER(username) = LOWER(?)`, username).Scan(&exists); err != nil {
		return 0, err
	}
	if exists > 0 {
		return 0, ErrUsernameExists
	}
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE LOWER(email) = ?`, email).Scan(&exists); err != nil {
		return 0, err
	}
	if exists > 0 {
		return 0, ErrEmailExists
	}
	if fullName != "" {
		if err := r.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users WHERE full_name = ?`, fullName).Scan(&exists); err != nil {
			return 0, err
		}
		if exists > 0 {
			return 0, ErrFullNameExists
		}
	}
	var fn interface{}
	if fullName != "" {
		fn = fullName
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (username, email, full_name, password_hash, role) VALUES (?, ?, ?, ?, ?)`,
		username, email, fn, passwordHash, role)
	if err != nil {
		// 1062 is the MySQL duplicate-key error; a concurrent insert may
		// have won the race after our checks passed.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsernameOrEmail fetches a user by login name, matching either
// the username or the email column.
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, login string) (model.User, error) {
	login = strings.TrimSpace(login)
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = LOWER(?) LIMIT 1`,
		login, login))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id))
}

// DeleteAllTx removes every user.  Only the full administrative reset
// uses this; the transactional reset preserves accounts.
func (r *UserRepo) DeleteAllTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM users`)
	return err
}
