package claims

import (
	"context"
	"errors"
)

// Claims is the identity of the logged-in visitor, set by the
// authentication middleware for the duration of one request.
type Claims struct {
	UserID int
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}
