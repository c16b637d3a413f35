// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
)

// ImageGenerator is the interface image providers implement. The studio's
// image side is a separate service from the text side (Imagen vs Gemini),
// so the registry carries it independently of the text providers.
type ImageGenerator interface {
	// GenerateImage creates an image from a text prompt. Returns the raw
	// image bytes and the MIME content type (e.g., "image/png").
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// SetImager installs the image provider. Pass nil to disable image
// generation (the studio degrades to text-only).
func (r *Registry) SetImager(ig ImageGenerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imager = ig
}

// GenerateImage calls the configured image provider.
func (r *Registry) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	r.mu.RLock()
	ig := r.imager
	r.mu.RUnlock()

	if ig == nil {
		return nil, "", fmt.Errorf("ai: no image provider configured")
	}
	return ig.GenerateImage(ctx, prompt)
}

// SupportsImageGeneration returns true if an image provider is configured.
func (r *Registry) SupportsImageGeneration() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.imager != nil
}
