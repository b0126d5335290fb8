package test

import (
	"net/http"
	"strconv"
	"testing"
)

type userEnvelope struct {
	User struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	} `json:"user"`
}

type apiError struct {
	Message string `json:"message"`
}

func TestUsers(t *testing.T) {
	env, err := NewTestEnv(t, "user")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	t.Run("registerDuplicateEmail", func(t *testing.T) {
		w, err := env.postJSON("/api/register", map[string]string{
			"fullName":      "Someone Else",
			"contactNumber": "09171111111",
			"email":         env.UserEmail,
			"password":      "another-password",
		})
		if err != nil {
			t.Fatal(err)
		}
		if w.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for duplicate email, got %s", w.Status)
		}

		var e apiError
		decode(t, w, &e)
		if e.Message == "" {
			t.Error("error body must carry a message")
		}
	})

	t.Run("registerInvalidPayload", func(t *testing.T) {
		w, err := env.postJSON("/api/register", map[string]string{
			"fullName": "No Email",
			"password": "password123",
		})
		if err != nil {
			t.Fatal(err)
		}
		w.Body.Close()
		if w.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid payload, got %s", w.Status)
		}
	})

	t.Run("loginWrongPassword", func(t *testing.T) {
		w, err := env.login(env.UserEmail, "wrong-password")
		if err != nil {
			t.Fatal(err)
		}
		if w.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for wrong password, got %s", w.Status)
		}

		var e apiError
		decode(t, w, &e)
		if e.Message != "Invalid email or password" {
			t.Errorf("unexpected message %q", e.Message)
		}
	})

	t.Run("loginUnknownEmail", func(t *testing.T) {
		w, err := env.login("nobody@kiyoto.test", "whatever-password")
		if err != nil {
			t.Fatal(err)
		}
		w.Body.Close()
		if w.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown email, got %s", w.Status)
		}
	})

	t.Run("currentWithoutLogin", func(t *testing.T) {
		env.resetClient()
		w, err := env.do(http.MethodGet, "/api/users/current", nil)
		if err != nil {
			t.Fatal(err)
		}
		w.Body.Close()
		if w.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 without a session, got %s", w.Status)
		}
	})

	var userID int

	t.Run("loginAndShowCurrent", func(t *testing.T) {
		w, err := env.login(env.UserEmail, env.UserPass)
		if err != nil {
			t.Fatal(err)
		}
		if w.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 on login, got %s", w.Status)
		}

		var env2 userEnvelope
		decode(t, w, &env2)
		if env2.User.Email != env.UserEmail {
			t.Errorf("login envelope email: expected %q, got %q", env.UserEmail, env2.User.Email)
		}
		if env2.User.ID == 0 {
			t.Error("login envelope must carry the user id")
		}
		userID = env2.User.ID

		cw, err := env.do(http.MethodGet, "/api/users/current", nil)
		if err != nil {
			t.Fatal(err)
		}
		if cw.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 on current user, got %s", cw.Status)
		}

		var current struct {
			ID    int    `json:"id"`
			Email string `json:"email"`
		}
		decode(t, cw, &current)
		if current.ID != userID {
			t.Errorf("current user id: expected %d, got %d", userID, current.ID)
		}
	})

	t.Run("showByID", func(t *testing.T) {
		w, err := env.do(http.MethodGet, "/api/users/"+strconv.Itoa(userID), nil)
		if err != nil {
			t.Fatal(err)
		}
		if w.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %s", w.Status)
		}

		var usr struct {
			ID            int    `json:"id"`
			FullName      string `json:"fullName"`
			ContactNumber string `json:"contactNumber"`
			Email         string `json:"email"`
		}
		decode(t, w, &usr)
		if usr.Email != env.UserEmail || usr.ContactNumber == "" {
			t.Errorf("unexpected user payload: %+v", usr)
		}
	})

	t.Run("showInvalidID", func(t *testing.T) {
		w, err := env.do(http.MethodGet, "/api/users/abc", nil)
		if err != nil {
			t.Fatal(err)
		}

		var e apiError
		if w.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for non-numeric id, got %s", w.Status)
		}
		decode(t, w, &e)
		if e.Message != "Invalid user ID" {
			t.Errorf("unexpected message %q", e.Message)
		}
	})

	t.Run("showMissing", func(t *testing.T) {
		w, err := env.do(http.MethodGet, "/api/users/999999", nil)
		if err != nil {
			t.Fatal(err)
		}
		w.Body.Close()
		if w.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 for missing user, got %s", w.Status)
		}
	})

	t.Run("logout", func(t *testing.T) {
		w, err := env.do(http.MethodPost, "/api/logout", nil)
		if err != nil {
			t.Fatal(err)
		}
		w.Body.Close()
		if w.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204 on logout, got %s", w.Status)
		}

		cw, err := env.do(http.MethodGet, "/api/users/current", nil)
		if err != nil {
			t.Fatal(err)
		}
		cw.Body.Close()
		if cw.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout, got %s", cw.Status)
		}
	})
}
