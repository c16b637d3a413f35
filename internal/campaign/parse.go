// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package campaign

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError reports a model response that could not be mapped into
// CampaignVariants. Raw always carries the original response text unchanged
// so the caller can show it to the user for diagnosis.
type ParseError struct {
	Raw string // the raw model response, before fence stripping
	Err error  // the underlying decode or validation failure
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("campaign: parse model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseVariants maps the raw text response from the text-generation call into
// a CampaignVariants value. Markdown code fences around the payload are
// stripped first, so fenced and unfenced responses parse identically.
//
// The parse is all-or-nothing: any decode failure or missing required field
// returns a *ParseError and no variants. There is no best-effort fallback —
// the caller treats the generation as failed and lets the user retry.
func ParseVariants(raw string) (*CampaignVariants, error) {
	payload := stripCodeFence(raw)

	var v CampaignVariants
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	if err := validateAsset("variant_a", v.VariantA); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if err := validateAsset("variant_b", v.VariantB); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	return &v, nil
}

// validateAsset checks that every required field of one variant is present.
// Hex color FORMAT is deliberately not validated here; see IsHexColor.
func validateAsset(name string, a CampaignAsset) error {
	switch {
	case strings.TrimSpace(a.Slogan) == "":
		return fmt.Errorf("%s: missing slogan", name)
	case strings.TrimSpace(a.ImagePrompt) == "":
		return fmt.Errorf("%s: missing image_prompt", name)
	case strings.TrimSpace(a.FontRecommendation) == "":
		return fmt.Errorf("%s: missing font_recommendation", name)
	case strings.TrimSpace(a.ColorPalette.Primary) == "":
		return fmt.Errorf("%s: missing color_palette.primary", name)
	case strings.TrimSpace(a.ColorPalette.Secondary) == "":
		return fmt.Errorf("%s: missing color_palette.secondary", name)
	case strings.TrimSpace(a.ColorPalette.Accent) == "":
		return fmt.Errorf("%s: missing color_palette.accent", name)
	}
	return nil
}

// stripCodeFence removes surrounding markdown code fences from a model
// response: ```json ... ``` or ``` ... ```. Responses without fences are
// returned trimmed but otherwise unchanged.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line (which may carry a language tag).
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		// Drop the closing fence.
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
	}

	return strings.TrimSpace(s)
}
