package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kiyotomatcha/storefront/api/web"
	"github.com/kiyotomatcha/storefront/api/weberr"
)

func HandleList(cat Catalog) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, cat.List(), http.StatusOK)
	}
}

func HandleShow(cat Catalog) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := strconv.Atoi(web.Param(r, "id"))
		if err != nil {
			err := fmt.Errorf("parsing product id: %w", err)
			return weberr.NewError(err, "Invalid product ID", http.StatusBadRequest)
		}

		e, ok := cat.Find(id)
		if !ok {
			return weberr.NotFound(errors.New("product not found"))
		}

		return web.Respond(ctx, w, e, http.StatusOK)
	}
}
