package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/kiyotomatcha/storefront/api/web"
	"github.com/kiyotomatcha/storefront/api/weberr"
	"github.com/kiyotomatcha/storefront/core/user"
	"github.com/kiyotomatcha/storefront/validate"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type envelope struct {
	User user.Info `json:"user"`
}

func HandleRegister(db *sqlx.DB, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in user.UserSignup
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding signup: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		now := time.Now().UTC()
		usr := user.User{
			FullName:      in.FullName,
			ContactNumber: in.ContactNumber,
			Email:         in.Email,
			PasswordHash:  hash,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		created, err := user.Create(ctx, db, usr)
		if err != nil {
			if errors.Is(err, user.ErrDuplicateEmail) {
				return weberr.NewError(err, "Email already registered", http.StatusBadRequest)
			}
			return fmt.Errorf("creating user: %w", err)
		}

		if err := session.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}
		session.Put(ctx, sessionUserID, created.ID)

		return web.Respond(ctx, w, envelope{User: created.Info()}, http.StatusCreated)
	}
}

// HandleLogin answers a uniform 400 for both unknown emails and wrong
// passwords so the response does not leak which accounts exist.
func HandleLogin(db *sqlx.DB, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in login
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding login: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		usr, err := user.FetchByEmail(ctx, db, in.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return invalidCredentials(err)
			}
			return fmt.Errorf("fetching user by email: %w", err)
		}

		if err := bcrypt.CompareHashAndPassword(usr.PasswordHash, []byte(in.Password)); err != nil {
			return invalidCredentials(err)
		}

		if err := session.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}
		session.Put(ctx, sessionUserID, usr.ID)

		return web.Respond(ctx, w, envelope{User: usr.Info()}, http.StatusOK)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := session.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func invalidCredentials(err error) error {
	return weberr.NewError(err, "Invalid email or password", http.StatusBadRequest)
}
