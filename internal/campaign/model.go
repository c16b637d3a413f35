// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package campaign defines the creative campaign data model and the
// request/response pipeline around the text-generation model: building the
// instruction prompt from a brief and parsing the model's JSON answer into
// two A/B variants.
package campaign

import "strings"

// ColorPalette holds the three hex color tokens recommended for a variant.
// The values are expected to look like "#RRGGBB" but the format is not
// enforced at parse time; consumers that need a real color should check
// with IsHexColor first.
type ColorPalette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// CampaignAsset is the structured creative output for one variant.
// Assets are immutable once parsed; a new generation replaces them wholesale.
type CampaignAsset struct {
	Slogan             string       `json:"slogan"`
	ImagePrompt        string       `json:"image_prompt"`
	ColorPalette       ColorPalette `json:"color_palette"`
	FontRecommendation string       `json:"font_recommendation"`
}

// CampaignVariants holds exactly two contrasting creative alternatives.
// Variant A is briefed as bold and direct, variant B as creative and artistic.
type CampaignVariants struct {
	VariantA CampaignAsset `json:"variant_a"`
	VariantB CampaignAsset `json:"variant_b"`
}

// Asset returns the asset for a variant identifier ("A" or "B").
// The second return value is false for any other identifier.
func (v *CampaignVariants) Asset(id string) (CampaignAsset, bool) {
	switch id {
	case "A":
		return v.VariantA, true
	case "B":
		return v.VariantB, true
	}
	return CampaignAsset{}, false
}

// VariantIDs lists the valid variant identifiers in display order.
func VariantIDs() []string { return []string{"A", "B"} }

// IsHexColor reports whether s is a "#RGB" or "#RRGGBB" hex color token.
func IsHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range strings.ToLower(s[1:]) {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
