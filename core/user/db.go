package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrDuplicateEmail marks a registration with an email that already has
// an account.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

func Create(ctx context.Context, db sqlx.ExtContext, usr User) (User, error) {
	const q = `
	INSERT INTO users (full_name, contact_number, email, password_hash, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING user_id`

	row := db.QueryRowxContext(ctx, q,
		usr.FullName,
		usr.ContactNumber,
		usr.Email,
		usr.PasswordHash,
		usr.CreatedAt,
		usr.UpdatedAt,
	)

	if err := row.Scan(&usr.ID); err != nil {
		var pqerr *pq.Error
		if errors.As(err, &pqerr) && string(pqerr.Code) == uniqueViolation {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("inserting user: %w", err)
	}

	return usr, nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id int) (User, error) {
	const q = `SELECT * FROM users WHERE user_id = $1`

	var usr User
	if err := sqlx.GetContext(ctx, db, &usr, q, id); err != nil {
		return User{}, err
	}

	return usr, nil
}

func FetchByEmail(ctx context.Context, db sqlx.ExtContext, email string) (User, error) {
	const q = `SELECT * FROM users WHERE email = $1`

	var usr User
	if err := sqlx.GetContext(ctx, db, &usr, q, email); err != nil {
		return User{}, err
	}

	return usr, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]User, error) {
	const q = `SELECT * FROM users ORDER BY user_id`

	users := []User{}
	if err := sqlx.SelectContext(ctx, db, &users, q); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	return users, nil
}
