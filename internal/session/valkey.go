// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "studio:session:"

// ValkeyStore persists sessions in Valkey so campaign state survives process
// restarts and multiple instances can share it. Each session is one JSON
// document under studio:session:{id} with the TTL enforced server-side.
type ValkeyStore struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// ConnectValkey opens and pings a Valkey connection.
func ConnectValkey(ctx context.Context, host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}
	return client, nil
}

// NewValkeyStore creates a Valkey-backed session store.
func NewValkeyStore(client *redis.Client, ttl time.Duration, secure bool) *ValkeyStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ValkeyStore{client: client, ttl: ttl, secure: secure}
}

func (s *ValkeyStore) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	data, err := s.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	sess.ID = cookie.Value
	return &sess, nil
}

func (s *ValkeyStore) Create(ctx context.Context, w http.ResponseWriter) (*Session, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess := &Session{ID: id, CreatedAt: now, UpdatedAt: now}

	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}

	http.SetCookie(w, newCookie(id, s.ttl, s.secure))
	return sess, nil
}

func (s *ValkeyStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}
