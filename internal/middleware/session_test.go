package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campaignstudio/internal/session"
)

func TestEnsureSession(t *testing.T) {
	store := session.NewMemoryStore(time.Minute, false)

	var seen *session.Session
	handler := EnsureSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("creates session on first visit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if seen == nil {
			t.Fatal("handler should see a session in context")
		}
		if seen.ID == "" {
			t.Error("created session should have an ID")
		}

		cookies := rr.Result().Cookies()
		var found bool
		for _, c := range cookies {
			if c.Name == session.CookieName {
				found = true
				if c.Value != seen.ID {
					t.Errorf("cookie value = %q, want session ID %q", c.Value, seen.ID)
				}
				if !c.HttpOnly {
					t.Error("session cookie should be HttpOnly")
				}
			}
		}
		if !found {
			t.Fatalf("response should set the %s cookie", session.CookieName)
		}
	})

	t.Run("reuses existing session", func(t *testing.T) {
		// First request establishes the session.
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		first := seen

		// Second request carries the cookie back.
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range rr.Result().Cookies() {
			req.AddCookie(c)
		}
		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if seen == nil || seen.ID != first.ID {
			t.Errorf("second request should reuse session %q", first.ID)
		}
	})
}

func TestSessionFromCtxOutsideChain(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := SessionFromCtx(req.Context()); got != nil {
		t.Errorf("SessionFromCtx without middleware = %v, want nil", got)
	}
}
