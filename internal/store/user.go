package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/salesdesk/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmailAndDigest looks a user up by exact email and password digest
// match. An unknown email and a wrong password both come back as
// ErrNotFound; the two cases are indistinguishable on purpose.
func (r *UserRepository) GetByEmailAndDigest(ctx context.Context, email, digest string) (types.User, error) {
	const query = `
		SELECT id, name, email, is_admin
		FROM users
		WHERE email = $1 AND password_hash = $2
		ORDER BY id
		LIMIT 1`
	var (
		user    types.User
		isAdmin int
	)
	err := r.db.QueryRowContext(ctx, query, email, digest).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&isAdmin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	user.IsAdmin = isAdmin == 1
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		INSERT INTO users (name, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	isAdmin := 0
	if user.IsAdmin {
		isAdmin = 1
	}
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.PasswordHash,
		isAdmin,
	).Scan(&user.ID); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	const query = `
		SELECT id, name, email, is_admin
		FROM users
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		var (
			user    types.User
			isAdmin int
		)
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &isAdmin); err != nil {
			return nil, err
		}
		user.IsAdmin = isAdmin == 1
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
