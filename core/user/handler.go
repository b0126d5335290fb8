package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/kiyotomatcha/storefront/api/web"
	"github.com/kiyotomatcha/storefront/api/weberr"
	"github.com/kiyotomatcha/storefront/core/claims"
)

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		users, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("fetching users: %w", err)
		}

		return web.Respond(ctx, w, users, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := strconv.Atoi(web.Param(r, "id"))
		if err != nil {
			err := fmt.Errorf("parsing user id: %w", err)
			return weberr.NewError(err, "Invalid user ID", http.StatusBadRequest)
		}

		usr, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NewError(err, "User not found", http.StatusNotFound)
			}
			return fmt.Errorf("fetching user[%d]: %w", id, err)
		}

		return web.Respond(ctx, w, usr, http.StatusOK)
	}
}

func HandleShowCurrent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		usr, err := Fetch(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("fetching user[%d]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, usr, http.StatusOK)
	}
}
