package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/tailor-booking/internal/model"
	"github.com/iliyamo/tailor-booking/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user, returning its ID.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES (?,?,?)",
		strings.TrimSpace(name), email, hash)
	if err != nil {
		if isDuplicate(err) {
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

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,created_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// Any reports whether at least one user exists.
func (r *UserRepo) Any(ctx context.Context) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users LIMIT 1").Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
