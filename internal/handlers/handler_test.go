// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers_test

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"campaignstudio/internal/ai"
	"campaignstudio/internal/handlers"
	"campaignstudio/internal/metrics"
	"campaignstudio/internal/render"
	"campaignstudio/internal/router"
	"campaignstudio/internal/session"
)

// mockVariantsJSON is what the mock text provider answers with by default.
const mockVariantsJSON = `{
    "variant_a": {
        "slogan": "Charge Ahead",
        "image_prompt": "a sleek electric bike on a city street at dawn",
        "color_palette": {"primary": "#0f172a", "secondary": "#38bdf8", "accent": "#facc15"},
        "font_recommendation": "Inter"
    },
    "variant_b": {
        "slogan": "Ride the Quiet Revolution",
        "image_prompt": "impressionist painting of a cyclist gliding through a park",
        "color_palette": {"primary": "#fef3c7", "secondary": "#166534", "accent": "#ea580c"},
        "font_recommendation": "Cormorant Garamond"
    }
}`

// mockAIProvider is a scriptable text provider.
type mockAIProvider struct {
	response string
	err      error
	calls    int
}

func (m *mockAIProvider) Generate(_ context.Context, _, _ string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockAIProvider) Name() string { return "mock" }

// mockImager is a scriptable image provider recording the prompts it saw.
type mockImager struct {
	img     []byte
	err     error
	prompts []string
}

func (m *mockImager) GenerateImage(_ context.Context, prompt string) ([]byte, string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return nil, "", m.err
	}
	return m.img, "image/png", nil
}

// testEnv wires a full studio stack against mock AI providers.
type testEnv struct {
	t        *testing.T
	handler  http.Handler
	provider *mockAIProvider
	imager   *mockImager
	cookies  []*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	provider := &mockAIProvider{response: mockVariantsJSON}
	imager := &mockImager{img: []byte("fake-png-bytes")}

	registry := ai.NewRegistry("gemini", nil)
	registry.Register("mock", provider)
	registry.SetImager(imager)

	store := session.NewMemoryStore(time.Minute, false)
	sim := metrics.NewWithSource(rand.NewSource(1))
	studio := handlers.NewStudio(registry, store, sim, renderer)

	return &testEnv{
		t:        t,
		handler:  router.New(store, studio),
		provider: provider,
		imager:   imager,
	}
}

// do performs one request, carrying the session cookie across calls.
func (e *testEnv) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	e.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	if cs := rr.Result().Cookies(); len(cs) > 0 {
		e.cookies = cs
	}
	return rr
}

// generate posts a brief and asserts the fragment came back OK.
func (e *testEnv) generate(brief string) *httptest.ResponseRecorder {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/studio/generate", url.Values{"brief": {brief}})
	if rr.Code != http.StatusOK {
		e.t.Fatalf("generate: status %d", rr.Code)
	}
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestStudioPage(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(http.MethodGet, "/", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `name="brief"`) {
		t.Error("page should contain the brief form")
	}
	if strings.Contains(body, "Charge Ahead") {
		t.Error("fresh session should show no results")
	}
	if len(env.cookies) == 0 {
		t.Error("first visit should set a session cookie")
	}
}
