// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps each visitor's in-progress campaign: the brief, the
// generated variants and any rendered images. State is ephemeral by design —
// it lives in memory (or Valkey with a TTL) and disappears when the session
// expires. Nothing is ever written to durable storage.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"campaignstudio/internal/campaign"
)

// CookieName is the session cookie name.
const CookieName = "studio_session"

// DefaultTTL is how long an idle campaign session survives.
const DefaultTTL = 24 * time.Hour

// Session is one visitor's campaign workspace.
type Session struct {
	ID string `json:"-"`

	Brief    string                     `json:"brief,omitempty"`
	Variants *campaign.CampaignVariants `json:"variants,omitempty"`

	// Images holds rendered variant images keyed by variant ID ("A", "B").
	// []byte round-trips through JSON as base64, so the Valkey store can
	// persist the whole session as one document.
	Images map[string][]byte `json:"images,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetVariants installs a freshly generated campaign. Any images rendered for
// the previous variants are discarded so a stale visual can never be served
// next to a new slogan.
func (s *Session) SetVariants(brief string, v *campaign.CampaignVariants) {
	s.Brief = brief
	s.Variants = v
	s.Images = nil
	s.UpdatedAt = time.Now().UTC()
}

// SetImage stores a rendered image for one variant. Images accumulate;
// generating variant B's image never disturbs variant A's.
func (s *Session) SetImage(variantID string, data []byte) {
	if s.Images == nil {
		s.Images = make(map[string][]byte)
	}
	s.Images[variantID] = data
	s.UpdatedAt = time.Now().UTC()
}

// Image returns the stored image for a variant, if any.
func (s *Session) Image(variantID string) ([]byte, bool) {
	data, ok := s.Images[variantID]
	return data, ok
}

// HasVariants reports whether a campaign has been generated in this session.
func (s *Session) HasVariants() bool {
	return s.Variants != nil
}

// Store persists sessions and manages the session cookie.
type Store interface {
	// Load returns the session referenced by the request cookie, or
	// (nil, nil) when there is no cookie or the session expired.
	Load(ctx context.Context, r *http.Request) (*Session, error)

	// Create makes a fresh session and sets its cookie on the response.
	Create(ctx context.Context, w http.ResponseWriter) (*Session, error)

	// Save persists the session's current state.
	Save(ctx context.Context, s *Session) error
}

// generateID returns a 64-character hex session identifier.
func generateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func newCookie(id string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
