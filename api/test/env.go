package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/kiyotomatcha/storefront/api"
	"github.com/kiyotomatcha/storefront/config"
	"github.com/kiyotomatcha/storefront/core/cart"
	"github.com/kiyotomatcha/storefront/core/catalog"
	"github.com/kiyotomatcha/storefront/database"
	"github.com/kiyotomatcha/storefront/random"
	"github.com/kiyotomatcha/storefront/rate"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
)

// TestEnv runs the whole API against a disposable postgres container. Each
// env registers one default user whose credentials tests can log in with.
type TestEnv struct {
	DB     *sqlx.DB
	Server *httptest.Server
	URL    string

	UserEmail string
	UserPass  string

	client *http.Client
}

// NewTestEnv boots postgres in docker, migrates it and serves the API on
// an ephemeral port. It skips the test when docker is not reachable.
func NewTestEnv(t *testing.T, name string) (*TestEnv, error) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	res, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Name:       "storefront-" + name + "-" + random.String(6),
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=storefront",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("starting postgres container: %w", err)
	}
	t.Cleanup(func() { _ = pool.Purge(res) })
	_ = res.Expire(600)

	cfg := config.DB{
		User:       "postgres",
		Password:   "postgres",
		Host:       "localhost:" + res.GetPort("5432/tcp"),
		Name:       "storefront",
		DisableTLS: true,
	}

	var db *sqlx.DB
	pool.MaxWait = 60 * time.Second
	err = pool.Retry(func() error {
		var err error
		db, err = database.Open(cfg)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return database.StatusCheck(ctx, db)
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for postgres: %w", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating: %w", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	session := scs.New()
	session.Lifetime = time.Hour

	signals := cart.NewSignals(900 * time.Millisecond)
	t.Cleanup(signals.Stop)

	mux := api.APIMux(api.APIConfig{
		Log:          log,
		DB:           db,
		Session:      session,
		Catalog:      catalog.Default(),
		CartSlotKey:  "cartItems",
		CartSignals:  signals,
		LoginLimiter: rate.NewLimiter(1000, 100, rate.Every(time.Millisecond)),
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	env := &TestEnv{
		DB:        db,
		Server:    server,
		URL:       server.URL,
		UserEmail: random.String(10) + "@kiyoto.test",
		UserPass:  random.String(16),
	}
	env.resetClient()

	if err := env.register(env.UserEmail, env.UserPass); err != nil {
		return nil, fmt.Errorf("registering default user: %w", err)
	}
	env.resetClient()

	return env, nil
}

// Client returns an http client that carries the env's session cookie.
func (env *TestEnv) Client() *http.Client {
	return env.client
}

// resetClient drops all cookies, simulating a brand-new visitor.
func (env *TestEnv) resetClient() {
	jar, _ := cookiejar.New(nil)
	env.client = &http.Client{Jar: jar}
}

func (env *TestEnv) register(email, pass string) error {
	body := map[string]string{
		"fullName":      "Test Visitor",
		"contactNumber": "09170000000",
		"email":         email,
		"password":      pass,
	}

	w, err := env.postJSON("/api/register", body)
	if err != nil {
		return err
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusCreated {
		return fmt.Errorf("register: status code %s", w.Status)
	}
	return nil
}

func (env *TestEnv) login(email, pass string) (*http.Response, error) {
	return env.postJSON("/api/login", map[string]string{
		"email":    email,
		"password": pass,
	})
}

func (env *TestEnv) postJSON(path string, body interface{}) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	r, err := http.NewRequest(http.MethodPost, env.URL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")

	return env.Client().Do(r)
}

func (env *TestEnv) do(method, path string, body interface{}) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, env.URL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	return env.Client().Do(r)
}

func decode(t *testing.T, w *http.Response, dst interface{}) {
	t.Helper()
	defer w.Body.Close()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}
