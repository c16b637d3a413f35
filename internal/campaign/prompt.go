// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package campaign

import (
	"fmt"
	"strings"
)

// systemPrompt instructs the model to act as a marketing assistant and pins
// the exact JSON shape the parser expects. The schema example is spelled out
// literally because models follow concrete examples far more reliably than
// prose descriptions of a schema.
const systemPrompt = `You are a creative marketing assistant. Based on the user's creative brief, generate 2 distinct campaign variants (A, B) with different creative approaches.

For each variant, provide:
1. A unique campaign slogan
2. A detailed image generation prompt (describe visual style, colors, mood, elements)
3. A color palette with 3 hex colors (primary, secondary, accent)
4. A font recommendation

Make each variant distinctly different in tone and approach:
- Variant A: Bold and direct approach
- Variant B: Creative and artistic approach

Return your response in this exact JSON format and nothing else:
{
    "variant_a": {
        "slogan": "campaign slogan here",
        "image_prompt": "detailed image description here",
        "color_palette": {
            "primary": "#hexcode",
            "secondary": "#hexcode",
            "accent": "#hexcode"
        },
        "font_recommendation": "font name"
    },
    "variant_b": {
        "slogan": "campaign slogan here",
        "image_prompt": "detailed image description here",
        "color_palette": {
            "primary": "#hexcode",
            "secondary": "#hexcode",
            "accent": "#hexcode"
        },
        "font_recommendation": "font name"
    }
}`

// BuildPrompt turns a free-text creative brief into the system and user
// prompts for the text-generation call. It is a pure function of the brief.
// An empty or whitespace-only brief returns an error before any API work.
func BuildPrompt(brief string) (system, user string, err error) {
	brief = strings.TrimSpace(brief)
	if brief == "" {
		return "", "", fmt.Errorf("campaign: brief must not be empty")
	}
	return systemPrompt, fmt.Sprintf("Creative Brief: %s", brief), nil
}
