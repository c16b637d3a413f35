// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newGeminiServer spins up a fake Gemini endpoint that records the request
// and answers with the given handler.
func newGeminiServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// geminiSuccessBody builds a generateContent response carrying one text part.
func geminiSuccessBody(text string) string {
	resp := geminiResponse{
		Candidates: []geminiCandidate{
			{Content: geminiContent{Parts: []geminiPart{{Text: text}}}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest

	srv := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, geminiSuccessBody(`{"variant_a":{}}`))
	})

	p := newGemini(ProviderConfig{APIKey: "test-key", Model: "gemini-2.0-flash", BaseURL: srv.URL})

	result, err := p.Generate(context.Background(), "system rules", "Creative Brief: coffee")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result != `{"variant_a":{}}` {
		t.Errorf("result = %q", result)
	}

	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "system rules" {
		t.Error("request should carry the system prompt as system_instruction")
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "Creative Brief: coffee" {
		t.Error("request should carry the user prompt in contents")
	}
	if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Error("request should ask for an application/json response")
	}
}

func TestGeminiGenerateErrors(t *testing.T) {
	t.Run("API error status", func(t *testing.T) {
		srv := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
		})
		p := newGemini(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})

		_, err := p.Generate(context.Background(), "s", "u")
		if err == nil {
			t.Fatal("expected error for non-200 status")
		}
		if !strings.Contains(err.Error(), "429") {
			t.Errorf("error should carry the status code, got: %v", err)
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		srv := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"candidates":[]}`)
		})
		p := newGemini(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})

		_, err := p.Generate(context.Background(), "s", "u")
		if err == nil || !strings.Contains(err.Error(), "no candidates") {
			t.Errorf("expected no-candidates error, got: %v", err)
		}
	})

	t.Run("no text parts", func(t *testing.T) {
		srv := newGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`)
		})
		p := newGemini(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})

		_, err := p.Generate(context.Background(), "s", "u")
		if err == nil || !strings.Contains(err.Error(), "no text") {
			t.Errorf("expected no-text error, got: %v", err)
		}
	})
}

// imagenSuccessBody builds a :predict response with one base64 image.
func imagenSuccessBody(img []byte, mimeType string) string {
	resp := imagenResponse{
		Predictions: []imagenPrediction{
			{BytesBase64Encoded: base64.StdEncoding.EncodeToString(img), MimeType: mimeType},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestImagenGenerateImage(t *testing.T) {
	want := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}
	var gotPath, gotKey string
	var gotBody imagenRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, imagenSuccessBody(want, "image/png"))
	}))
	defer srv.Close()

	p := NewImagen(ImagenConfig{
		APIKey:    "vertex-key",
		ProjectID: "proj",
		Region:    "us-central1",
		BaseURL:   srv.URL,
	})

	img, contentType, err := p.GenerateImage(context.Background(), "a wide shot of coffee")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img) != string(want) {
		t.Errorf("image bytes do not round-trip: got %v", img)
	}
	if contentType != "image/png" {
		t.Errorf("contentType = %q", contentType)
	}

	wantPath := "/v1/projects/proj/locations/us-central1/publishers/google/models/" +
		DefaultImagenModels[0] + ":predict"
	if gotPath != wantPath {
		t.Errorf("path = %q, want %q", gotPath, wantPath)
	}
	if gotKey != "vertex-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(gotBody.Instances) != 1 || gotBody.Instances[0].Prompt != "a wide shot of coffee" {
		t.Error("request should carry the prompt in instances")
	}
	params := gotBody.Parameters
	if params.SampleCount != 1 || params.AspectRatio != "16:9" {
		t.Errorf("parameters = %+v, want one 16:9 sample", params)
	}
	if params.SafetySetting != "block_low_and_above" || params.PersonGeneration != "allow_adult" {
		t.Errorf("safety parameters = %+v", params)
	}
}

// TestImagenFallback verifies the ordered model chain: a transport/API
// failure on the primary model triggers exactly one retry on the fallback.
func TestImagenFallback(t *testing.T) {
	want := []byte("fallback-image")
	var calls []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		if strings.Contains(r.URL.Path, "primary-model") {
			http.Error(w, "internal", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, imagenSuccessBody(want, ""))
	}))
	defer srv.Close()

	p := NewImagen(ImagenConfig{
		APIKey: "k", ProjectID: "proj", Region: "r",
		Models:  []string{"primary-model", "fallback-model"},
		BaseURL: srv.URL,
	})

	img, contentType, err := p.GenerateImage(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img) != string(want) {
		t.Errorf("image = %q", img)
	}
	if contentType != "image/png" {
		t.Errorf("missing MIME type should default to image/png, got %q", contentType)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 upstream calls (primary then fallback), got %d: %v", len(calls), calls)
	}
	if !strings.Contains(calls[0], "primary-model") || !strings.Contains(calls[1], "fallback-model") {
		t.Errorf("calls out of order: %v", calls)
	}
}

// TestImagenChainExhausted verifies the GenerationFailedError after every
// model fails, carrying the model list and the last failure.
func TestImagenChainExhausted(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	models := []string{"m1", "m2"}
	p := NewImagen(ImagenConfig{APIKey: "k", ProjectID: "p", Region: "r", Models: models, BaseURL: srv.URL})

	_, _, err := p.GenerateImage(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error after chain exhaustion")
	}

	var genErr *GenerationFailedError
	if !errors.As(err, &genErr) {
		t.Fatalf("error should be a *GenerationFailedError, got %T", err)
	}
	if len(genErr.Models) != 2 {
		t.Errorf("Models = %v", genErr.Models)
	}
	if !strings.Contains(genErr.Err.Error(), "502") {
		t.Errorf("wrapped error should carry the last failure, got: %v", genErr.Err)
	}
	if calls != 2 {
		t.Errorf("expected one call per model, got %d", calls)
	}
}

// TestImagenEmptyPredictionsNoFallback verifies that an answer with no image
// bytes is treated as authoritative: ErrImageUnavailable, no retry.
func TestImagenEmptyPredictionsNoFallback(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"predictions":[]}`)
	}))
	defer srv.Close()

	p := NewImagen(ImagenConfig{
		APIKey: "k", ProjectID: "p", Region: "r",
		Models:  []string{"m1", "m2"},
		BaseURL: srv.URL,
	})

	_, _, err := p.GenerateImage(context.Background(), "prompt")
	if !errors.Is(err, ErrImageUnavailable) {
		t.Fatalf("expected ErrImageUnavailable, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("safety block should not trigger the fallback model, got %d calls", calls)
	}
}

func TestImagenPredictionWithoutBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"predictions":[{"mimeType":"image/png"}]}`)
	}))
	defer srv.Close()

	p := NewImagen(ImagenConfig{APIKey: "k", ProjectID: "p", Region: "r", Models: []string{"m"}, BaseURL: srv.URL})

	_, _, err := p.GenerateImage(context.Background(), "prompt")
	if !errors.Is(err, ErrImageUnavailable) {
		t.Fatalf("predictions without bytes should be ErrImageUnavailable, got: %v", err)
	}
}
