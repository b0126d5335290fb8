package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/kiyotomatcha/storefront/api/web"
	"github.com/kiyotomatcha/storefront/api/weberr"
	"github.com/kiyotomatcha/storefront/core/catalog"
	"github.com/kiyotomatcha/storefront/validate"
	"github.com/sirupsen/logrus"
)

// Config carries what the cart handlers need: the session slot the cart
// lives in, the catalog that prices adds, and the shared signal tracker.
type Config struct {
	Session *scs.SessionManager
	Catalog catalog.Catalog
	Signals *Signals
	SlotKey string
	Log     logrus.FieldLogger
}

// View is the cart as the UI reads it.
type View struct {
	Items      []Line  `json:"items"`
	TotalItems int     `json:"totalItems"`
	Subtotal   float64 `json:"subtotal"`
	JustAdded  []int   `json:"justAdded,omitempty"`
}

type itemNew struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
}

const visitorKey = "visitor_id"

func (cfg Config) store(ctx context.Context) *Store {
	slot := &SessionSlot{Session: cfg.Session, Key: cfg.SlotKey}
	return NewStore(ctx, slot, cfg.Log)
}

// scope identifies the visitor for signal tracking. The session token is
// empty until the session is first committed, so a generated visitor id
// held in the session is used instead.
func (cfg Config) scope(ctx context.Context) string {
	v := cfg.Session.GetString(ctx, visitorKey)
	if v == "" {
		v = validate.GenerateID()
		cfg.Session.Put(ctx, visitorKey, v)
	}
	return v
}

func (cfg Config) view(ctx context.Context, s *Store) View {
	return View{
		Items:      s.Lines(),
		TotalItems: s.TotalItems(),
		Subtotal:   s.Subtotal(),
		JustAdded:  cfg.Signals.All(cfg.scope(ctx)),
	}
}

func HandleShow(cfg Config) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s := cfg.store(ctx)
		return web.Respond(ctx, w, cfg.view(ctx, s), http.StatusOK)
	}
}

// HandleAddItem is add-or-increment. Unknown products 404; entries that
// are not purchasable leave the cart untouched and still answer 200, the
// same silent rejection the store applies.
func HandleAddItem(cfg Config) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in itemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding cart item: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		entry, ok := cfg.Catalog.Find(in.ProductID)
		if !ok {
			return weberr.NotFound(errors.New("product not found"))
		}

		s := cfg.store(ctx)
		if s.AddOrIncrement(ctx, entry) {
			cfg.Signals.Mark(cfg.scope(ctx), entry.ID)
		}

		return web.Respond(ctx, w, cfg.view(ctx, s), http.StatusOK)
	}
}

func HandleIncrement(cfg Config) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := productID(r)
		if err != nil {
			return err
		}

		s := cfg.store(ctx)
		s.Increment(ctx, id)
		return web.Respond(ctx, w, cfg.view(ctx, s), http.StatusOK)
	}
}

func HandleDecrement(cfg Config) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := productID(r)
		if err != nil {
			return err
		}

		s := cfg.store(ctx)
		s.Decrement(ctx, id)
		return web.Respond(ctx, w, cfg.view(ctx, s), http.StatusOK)
	}
}

func HandleRemoveItem(cfg Config) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := productID(r)
		if err != nil {
			return err
		}

		s := cfg.store(ctx)
		s.Remove(ctx, id)
		return web.Respond(ctx, w, cfg.view(ctx, s), http.StatusOK)
	}
}

func HandleClear(cfg Config) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s := cfg.store(ctx)
		s.Clear(ctx)
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// HandleCheckout finalizes the cart into a receipt. An empty cart is a
// rejected operation, not a server fault.
func HandleCheckout(cfg Config) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s := cfg.store(ctx)

		rcp, err := s.Checkout(ctx)
		if err != nil {
			if errors.Is(err, ErrEmptyCart) {
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			return fmt.Errorf("checking out: %w", err)
		}

		return web.Respond(ctx, w, rcp, http.StatusOK)
	}
}

func productID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(web.Param(r, "product_id"))
	if err != nil {
		err := fmt.Errorf("parsing product id: %w", err)
		return 0, weberr.NewError(err, "Invalid product ID", http.StatusBadRequest)
	}
	return id, nil
}
