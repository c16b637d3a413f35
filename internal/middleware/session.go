// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"campaignstudio/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// SessionKey is the context key for the campaign session.
const SessionKey contextKey = "session"

// EnsureSession loads the visitor's campaign session, creating one on the
// first visit, and stores it in the request context. The studio has no
// accounts; every browser gets an anonymous workspace keyed by cookie.
func EnsureSession(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Load(r.Context(), r)
			if err != nil {
				slog.Error("session load failed", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			if sess == nil {
				sess, err = store.Create(r.Context(), w)
				if err != nil {
					slog.Error("session create failed", "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromCtx extracts the campaign session from the request context.
// Returns nil outside the EnsureSession chain.
func SessionFromCtx(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(SessionKey).(*session.Session)
	return sess
}
