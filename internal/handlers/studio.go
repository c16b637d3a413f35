// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers for the campaign studio.
// The studio is a single page driven by HTMX: handlers accept form values,
// call the AI providers, and return HTML fragments that get swapped into
// the page's result areas.
package handlers

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"campaignstudio/internal/ai"
	"campaignstudio/internal/campaign"
	"campaignstudio/internal/metrics"
	"campaignstudio/internal/middleware"
	"campaignstudio/internal/render"
	"campaignstudio/internal/session"
)

// Studio bundles the dependencies shared by all studio handlers.
type Studio struct {
	aiRegistry *ai.Registry
	sessions   session.Store
	simulator  *metrics.Simulator
	renderer   *render.Renderer
}

// NewStudio creates the studio handler set.
func NewStudio(reg *ai.Registry, store session.Store, sim *metrics.Simulator, renderer *render.Renderer) *Studio {
	return &Studio{
		aiRegistry: reg,
		sessions:   store,
		simulator:  sim,
		renderer:   renderer,
	}
}

// Page renders the studio page. When the session already holds a campaign,
// the results section is rendered server-side with a fresh metrics draw so
// a reload behaves like the original generation run.
func (s *Studio) Page(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	data := &render.PageData{
		Title:        "AI Marketing Campaign Studio",
		Session:      sess,
		ImageEnabled: s.aiRegistry.SupportsImageGeneration(),
	}
	if sess != nil && sess.HasVariants() {
		data.Results = template.HTML(s.resultsFragment(sess))
	}

	s.renderer.Page(w, "studio", data)
}

// Generate handles the campaign generation form. It builds the structured
// prompt from the brief, calls the text provider, parses the response into
// two variants and replaces the session's campaign. A parse failure leaves
// the session untouched and shows the raw model output so the user can
// judge whether to retry.
func (s *Studio) Generate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	systemPrompt, userPrompt, err := campaign.BuildPrompt(r.FormValue("brief"))
	if err != nil {
		writeStudioError(w, "Please describe your product or service first.")
		return
	}

	raw, err := s.aiRegistry.Generate(r.Context(), systemPrompt, userPrompt)
	if err != nil {
		slog.Error("campaign generation failed", "error", err)
		writeStudioError(w, "Campaign generation failed. Check the AI provider configuration and try again.")
		return
	}

	variants, err := campaign.ParseVariants(raw)
	if err != nil {
		var perr *campaign.ParseError
		if errors.As(err, &perr) {
			slog.Warn("model response failed to parse", "error", perr.Err)
			writeParseFailure(w, perr)
			return
		}
		slog.Error("campaign parse failed", "error", err)
		writeStudioError(w, "The model returned an unusable response. Please try again.")
		return
	}

	sess.SetVariants(strings.TrimSpace(r.FormValue("brief")), variants)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		slog.Error("session save failed", "error", err)
		writeStudioError(w, "Could not store the campaign in your session.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(s.resultsFragment(sess)))
}

// GenerateImage renders the image for one variant using its stored image
// prompt. The variant ID comes from the URL; the prompt is never taken from
// the client, so a tampered form cannot draw arbitrary images.
func (s *Studio) GenerateImage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	variantID := chi.URLParam(r, "id")

	if !sess.HasVariants() {
		writeStudioError(w, "Generate a campaign first.")
		return
	}

	asset, ok := sess.Variants.Asset(variantID)
	if !ok {
		writeStudioError(w, "Unknown variant.")
		return
	}

	if !s.aiRegistry.SupportsImageGeneration() {
		writeStudioError(w, "Image generation is not configured on this server.")
		return
	}

	img, _, err := s.aiRegistry.GenerateImage(r.Context(), asset.ImagePrompt)
	if err != nil {
		s.writeImageFailure(w, variantID, err)
		return
	}

	sess.SetImage(variantID, img)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		slog.Error("session save failed", "error", err)
		writeStudioError(w, "Could not store the generated image in your session.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(imageFragment(variantID, true)))
}

// writeImageFailure maps the image error taxonomy onto user-facing fragments.
func (s *Studio) writeImageFailure(w http.ResponseWriter, variantID string, err error) {
	var genErr *ai.GenerationFailedError

	switch {
	case errors.Is(err, ai.ErrImageUnavailable):
		slog.Warn("image unavailable", "variant", variantID)
		writeStudioError(w, "The image service returned no image for this prompt, most likely due to safety filters. Adjust the campaign and try again.")
	case errors.As(err, &genErr):
		slog.Error("image generation exhausted model chain", "variant", variantID, "models", genErr.Models, "error", genErr.Err)
		writeStudioError(w, "Image generation failed on all configured models. Please try again later.")
	default:
		slog.Error("image generation failed", "variant", variantID, "error", err)
		writeStudioError(w, "Image generation failed. Please try again.")
	}
}

// VariantImage serves the stored image bytes for a variant.
func (s *Studio) VariantImage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	variantID := chi.URLParam(r, "id")

	img, ok := sess.Image(variantID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(img)
}

// --- Fragment builders ---
//
// The studio page swaps these fragments in via HTMX. They are plain
// Sprintf-built HTML with TailwindCSS classes; all model output is escaped.

// resultsFragment renders the full results section: both variant cards, the
// simulated A/B comparison and the recommendation. Metrics are drawn fresh
// on every render; they are decoration, not persisted state.
func (s *Studio) resultsFragment(sess *session.Session) string {
	ratesA := s.simulator.Draw()
	ratesB := s.simulator.Draw()
	recommendation := metrics.Recommend(ratesA, ratesB)

	var sb strings.Builder
	sb.WriteString(`<div class="grid gap-6 md:grid-cols-2">`)
	sb.WriteString(s.variantCard("A", "Bold &amp; Direct", sess, ratesA))
	sb.WriteString(s.variantCard("B", "Creative &amp; Artistic", sess, ratesB))
	sb.WriteString(`</div>`)

	sb.WriteString(fmt.Sprintf(
		`<div class="mt-8 rounded-lg border border-indigo-800 bg-indigo-950/40 p-4">
			<p class="text-sm text-indigo-300">Simulated A/B result</p>
			<p class="mt-1 text-lg font-semibold text-indigo-100">Recommended: %s</p>
			<p class="mt-1 text-xs text-gray-400">Performance numbers are simulated for comparison only and change on every run.</p>
		</div>`,
		html.EscapeString(recommendation),
	))

	sb.WriteString(exportFooter())
	return sb.String()
}

// variantCard renders one campaign variant: slogan, image area, palette,
// typography and simulated performance.
func (s *Studio) variantCard(id, label string, sess *session.Session, rates metrics.Rates) string {
	asset, ok := sess.Variants.Asset(id)
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		`<div class="rounded-xl border border-gray-800 bg-gray-900 p-5" id="variant-%s">
			<div class="flex items-baseline justify-between">
				<h2 class="text-lg font-semibold">Variant %s</h2>
				<span class="text-xs uppercase tracking-wide text-gray-500">%s</span>
			</div>
			<p class="mt-3 text-xl font-medium text-indigo-300">&ldquo;%s&rdquo;</p>`,
		id, id, label, html.EscapeString(asset.Slogan),
	))

	// Image area: stored image, or a generate button when a provider is up.
	_, hasImage := sess.Image(id)
	sb.WriteString(fmt.Sprintf(`<div class="mt-4" id="variant-image-%s">`, id))
	sb.WriteString(imageAreaContents(id, hasImage, s.aiRegistry.SupportsImageGeneration()))
	sb.WriteString(`</div>`)

	sb.WriteString(fmt.Sprintf(
		`<p class="mt-3 text-xs text-gray-500">Visual concept: %s</p>`,
		html.EscapeString(asset.ImagePrompt),
	))

	// Color palette swatches.
	sb.WriteString(`<div class="mt-4"><p class="text-xs font-medium text-gray-400 mb-2">Color palette</p><div class="flex gap-3">`)
	for _, c := range []struct{ name, value string }{
		{"Primary", asset.ColorPalette.Primary},
		{"Secondary", asset.ColorPalette.Secondary},
		{"Accent", asset.ColorPalette.Accent},
	} {
		sb.WriteString(swatch(c.name, c.value))
	}
	sb.WriteString(`</div></div>`)

	sb.WriteString(fmt.Sprintf(
		`<p class="mt-4 text-sm text-gray-300">Typography: <span class="font-medium">%s</span></p>`,
		html.EscapeString(asset.FontRecommendation),
	))

	sb.WriteString(fmt.Sprintf(
		`<div class="mt-4 grid grid-cols-3 gap-2 text-center">
			<div class="rounded bg-gray-800 p-2"><p class="text-xs text-gray-500">CTR</p><p class="text-sm font-semibold">%.2f%%</p></div>
			<div class="rounded bg-gray-800 p-2"><p class="text-xs text-gray-500">Engagement</p><p class="text-sm font-semibold">%.1f%%</p></div>
			<div class="rounded bg-gray-800 p-2"><p class="text-xs text-gray-500">Conversion</p><p class="text-sm font-semibold">%.2f%%</p></div>
		</div>`,
		rates.CTR, rates.Engagement, rates.Conversion,
	))

	sb.WriteString(`</div>`)
	return sb.String()
}

// imageFragment is the HTMX swap target content after an image request.
func imageFragment(variantID string, hasImage bool) string {
	return imageAreaContents(variantID, hasImage, true)
}

// imageAreaContents renders the inside of a variant's image area.
func imageAreaContents(variantID string, hasImage, imageEnabled bool) string {
	if hasImage {
		// Cache buster so a regenerated image replaces the old one.
		return fmt.Sprintf(
			`<img src="/studio/variants/%s/image.png?t=%d" alt="Variant %s campaign visual"
				class="w-full rounded-lg border border-gray-800 aspect-video object-cover">
			<button type="button"
				hx-post="/studio/variants/%s/image"
				hx-target="#variant-image-%s" hx-swap="innerHTML"
				class="mt-2 text-xs text-gray-400 hover:text-gray-200">Regenerate image</button>`,
			variantID, time.Now().UnixNano(), variantID, variantID, variantID,
		)
	}
	if !imageEnabled {
		return `<p class="text-xs text-gray-600">Image generation is not configured.</p>`
	}
	return fmt.Sprintf(
		`<button type="button"
			hx-post="/studio/variants/%s/image"
			hx-target="#variant-image-%s" hx-swap="innerHTML"
			hx-indicator="#image-spinner-%s"
			class="rounded-lg border border-dashed border-gray-700 px-4 py-8 w-full text-sm text-gray-400 hover:border-indigo-500 hover:text-indigo-300">
			Generate campaign visual
		</button>
		<span id="image-spinner-%s" class="htmx-indicator text-xs text-gray-500">Rendering image&hellip;</span>`,
		variantID, variantID, variantID, variantID,
	)
}

// swatch renders one palette color. Values that are not hex colors (the
// model occasionally answers with a name like "forest green") fall back to
// a neutral chip that shows the raw text instead of an inline style.
func swatch(name, value string) string {
	if campaign.IsHexColor(value) {
		return fmt.Sprintf(
			`<div class="text-center">
				<div class="h-10 w-10 rounded-lg border border-gray-700" style="background-color: %s"></div>
				<p class="mt-1 text-[10px] text-gray-500">%s</p>
				<p class="text-[10px] text-gray-400 font-mono">%s</p>
			</div>`,
			value, html.EscapeString(name), html.EscapeString(value),
		)
	}
	return fmt.Sprintf(
		`<div class="text-center">
			<div class="h-10 w-10 rounded-lg border border-gray-700 bg-gray-800"></div>
			<p class="mt-1 text-[10px] text-gray-500">%s</p>
			<p class="text-[10px] text-gray-400">%s</p>
		</div>`,
		html.EscapeString(name), html.EscapeString(truncate(value, 24)),
	)
}

// exportFooter renders the download links shown under the results.
func exportFooter() string {
	return `<div class="mt-6 flex gap-4">
		<a href="/studio/export/campaign.json"
			class="rounded-lg border border-gray-700 px-4 py-2 text-sm text-gray-300 hover:bg-gray-800">Download campaign JSON</a>
		<a href="/studio/export/images.zip"
			class="rounded-lg border border-gray-700 px-4 py-2 text-sm text-gray-300 hover:bg-gray-800">Download image bundle</a>
	</div>`
}

// writeParseFailure shows the raw model output so the user can see what
// came back before retrying. The session is left untouched.
func writeParseFailure(w http.ResponseWriter, perr *campaign.ParseError) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w,
		`<div class="rounded-lg border border-amber-800 bg-amber-950/40 p-4">
			<p class="text-sm text-amber-300">The model's response could not be read as a campaign. Your previous results are unchanged.</p>
			<pre class="mt-2 max-h-48 overflow-y-auto rounded bg-gray-900 p-3 text-xs text-gray-400 whitespace-pre-wrap">%s</pre>
			<p class="mt-2 text-xs text-gray-500">Try generating again.</p>
		</div>`,
		html.EscapeString(truncate(perr.Raw, 4000)),
	)
}

// writeStudioError writes an error message HTML fragment.
func writeStudioError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<p class="rounded-lg border border-red-900 bg-red-950/40 p-3 text-sm text-red-300">%s</p>`,
		html.EscapeString(msg))
}

// truncate cuts a string to maxLen characters, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
