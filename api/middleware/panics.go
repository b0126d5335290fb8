package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kiyotomatcha/storefront/api/web"
	"github.com/kiyotomatcha/storefront/api/weberr"
)

// Panics converts a panicking handler into an internal-error response so a
// single request cannot take the server down.
func Panics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {

			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					err = weberr.InternalError(
						fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(trace)),
					)
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
