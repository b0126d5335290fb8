package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/kiyotomatcha/storefront/api/web"
	"github.com/kiyotomatcha/storefront/api/weberr"
	"github.com/kiyotomatcha/storefront/rate"
)

// RateLimit rejects requests from clients that exceed their allowance in
// the given limiter. Clients are keyed by remote host.
func RateLimit(limiter *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !limiter.Check(host) {
				err := errors.New("too many requests")
				return weberr.NewError(err, err.Error(), http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
