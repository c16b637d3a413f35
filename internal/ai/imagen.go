// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrImageUnavailable means the image service answered but returned no
// usable image bytes — typically a safety-filter block. The condition is
// authoritative, so the fallback model is NOT tried for it.
var ErrImageUnavailable = errors.New("ai: image service returned no usable image data")

// GenerationFailedError means every model in the fallback chain failed with
// a transport or API error. Err carries the last underlying failure.
type GenerationFailedError struct {
	Models []string
	Err    error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("ai: image generation failed for models %v: %v", e.Models, e.Err)
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }

// DefaultImagenModels is the ordered model chain: the primary model first,
// then the designated fallback tried after a transport/API failure.
var DefaultImagenModels = []string{
	"imagen-4.0-generate-preview-06-06",
	"imagen-3.0-generate-002",
}

// Fixed generation parameters for campaign visuals. One wide image per call,
// aggressive safety filtering, adults allowed in generated imagery.
const (
	imagenSampleCount      = 1
	imagenAspectRatio      = "16:9"
	imagenSafetySetting    = "block_low_and_above"
	imagenPersonGeneration = "allow_adult"
)

// ImagenConfig holds the credentials and model chain for the Imagen
// `:predict` endpoint on Vertex AI.
type ImagenConfig struct {
	APIKey    string
	ProjectID string
	Region    string
	Models    []string // ordered fallback chain; DefaultImagenModels if empty
	BaseURL   string   // override for tests; derived from Region if empty
}

// Imagen implements ImageGenerator against the Vertex AI Imagen REST API
// (POST /v1/projects/{p}/locations/{r}/publishers/google/models/{m}:predict).
type Imagen struct {
	config ImagenConfig
	client *http.Client
}

// NewImagen creates an Imagen image provider.
func NewImagen(cfg ImagenConfig) *Imagen {
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultImagenModels
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("https://%s-aiplatform.googleapis.com", cfg.Region)
	}
	return &Imagen{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// GenerateImage issues one predict request per model in the chain until one
// succeeds. The hard upper bound is one request per configured model — with
// the default two-model chain, that is one call plus one fallback retry.
//
// Classification:
//   - a populated prediction returns its raw bytes and MIME type;
//   - an empty prediction list (or predictions without bytes) returns
//     ErrImageUnavailable without touching the fallback model;
//   - transport/API failures advance to the next model, and exhausting the
//     chain returns a *GenerationFailedError wrapping the last failure.
func (p *Imagen) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	var lastErr error

	for _, model := range p.config.Models {
		img, contentType, err := p.predict(ctx, model, prompt)
		if err == nil {
			return img, contentType, nil
		}
		if errors.Is(err, ErrImageUnavailable) {
			return nil, "", err
		}
		lastErr = err
	}

	return nil, "", &GenerationFailedError{Models: p.config.Models, Err: lastErr}
}

// predict sends a single :predict request against one model.
func (p *Imagen) predict(ctx context.Context, model, prompt string) ([]byte, string, error) {
	body := imagenRequest{
		Instances: []imagenInstance{{Prompt: prompt}},
		Parameters: imagenParameters{
			SampleCount:      imagenSampleCount,
			AspectRatio:      imagenAspectRatio,
			SafetySetting:    imagenSafetySetting,
			PersonGeneration: imagenPersonGeneration,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("imagen marshal: %w", err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		p.config.BaseURL, p.config.ProjectID, p.config.Region, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("imagen request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("imagen http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("imagen read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("imagen API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result imagenResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, "", fmt.Errorf("imagen unmarshal: %w", err)
	}

	// Extract the first prediction that actually carries image bytes.
	for _, pred := range result.Predictions {
		if pred.BytesBase64Encoded == "" {
			continue
		}
		img, err := base64.StdEncoding.DecodeString(pred.BytesBase64Encoded)
		if err != nil {
			return nil, "", fmt.Errorf("imagen decode base64: %w", err)
		}
		contentType := pred.MimeType
		if contentType == "" {
			contentType = "image/png"
		}
		return img, contentType, nil
	}

	// The service answered 200 with nothing usable — safety filters most
	// likely suppressed the output.
	return nil, "", ErrImageUnavailable
}

// --- Imagen API types ---

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount      int    `json:"sampleCount"`
	AspectRatio      string `json:"aspectRatio"`
	SafetySetting    string `json:"safetySetting"`
	PersonGeneration string `json:"personGeneration"`
}

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenPrediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type imagenResponse struct {
	Predictions []imagenPrediction `json:"predictions"`
}
