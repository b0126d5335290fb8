// Package auth wires the visitor session into the handler chain and
// implements password signup and login. The same session that carries the
// login identity also hosts the visitor's cart slot.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/kiyotomatcha/storefront/api/web"
	"github.com/kiyotomatcha/storefront/api/weberr"
	"github.com/kiyotomatcha/storefront/core/claims"
)

const sessionUserID = "user_id"

// LoadAndSave adapts the scs middleware to the web.Middleware shape: the
// session is loaded before the handler runs and committed after, with the
// token cookie managed on the response.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			var err error
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			})

			session.LoadAndSave(inner).ServeHTTP(w, r.WithContext(ctx))
			return err
		}
		return h
	}
	return m
}

// Authenticate requires a logged-in session and exposes it as claims.
func Authenticate(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			userID := session.GetInt(ctx, sessionUserID)
			if userID == 0 {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			ctx = claims.Set(ctx, claims.Claims{UserID: userID})
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
