package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/kiyotomatcha/storefront/api/middleware"
	"github.com/kiyotomatcha/storefront/api/web"
	"github.com/kiyotomatcha/storefront/core/auth"
	"github.com/kiyotomatcha/storefront/core/cart"
	"github.com/kiyotomatcha/storefront/core/catalog"
	"github.com/kiyotomatcha/storefront/core/user"
	"github.com/kiyotomatcha/storefront/database"
	"github.com/kiyotomatcha/storefront/rate"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin   string
	Log          logrus.FieldLogger
	DB           *sqlx.DB
	Session      *scs.SessionManager
	Catalog      catalog.Catalog
	CartSlotKey  string
	CartSignals  *cart.Signals
	LoginLimiter *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)

	a.Handle(http.MethodGet, "/", handleHealth(cfg.DB))

	a.Handle(http.MethodPost, "/api/register", auth.HandleRegister(cfg.DB, cfg.Session))
	a.Handle(http.MethodPost, "/api/login", auth.HandleLogin(cfg.DB, cfg.Session), middleware.RateLimit(cfg.LoginLimiter))
	a.Handle(http.MethodPost, "/api/logout", auth.HandleLogout(cfg.Session))

	a.Handle(http.MethodGet, "/api/users/current", user.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodGet, "/api/users/{id}", user.HandleShow(cfg.DB))
	a.Handle(http.MethodGet, "/api/users", user.HandleList(cfg.DB))

	a.Handle(http.MethodGet, "/api/products/{id}", catalog.HandleShow(cfg.Catalog))
	a.Handle(http.MethodGet, "/api/products", catalog.HandleList(cfg.Catalog))

	cartCfg := cart.Config{
		Session: cfg.Session,
		Catalog: cfg.Catalog,
		Signals: cfg.CartSignals,
		SlotKey: cfg.CartSlotKey,
		Log:     cfg.Log,
	}

	a.Handle(http.MethodGet, "/api/cart", cart.HandleShow(cartCfg))
	a.Handle(http.MethodDelete, "/api/cart", cart.HandleClear(cartCfg))
	a.Handle(http.MethodPost, "/api/cart/items", cart.HandleAddItem(cartCfg))
	a.Handle(http.MethodPut, "/api/cart/items/{product_id}/increment", cart.HandleIncrement(cartCfg))
	a.Handle(http.MethodPut, "/api/cart/items/{product_id}/decrement", cart.HandleDecrement(cartCfg))
	a.Handle(http.MethodDelete, "/api/cart/items/{product_id}", cart.HandleRemoveItem(cartCfg))
	a.Handle(http.MethodPost, "/api/checkout", cart.HandleCheckout(cartCfg))

	return a.Router
}

func handleHealth(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		status := "ok"
		code := http.StatusOK
		if err := database.StatusCheck(ctx, db); err != nil {
			status = "database not ready"
			code = http.StatusInternalServerError
		}

		health := struct {
			Status string `json:"status"`
		}{
			Status: status,
		}
		return web.Respond(ctx, w, health, code)
	}
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
