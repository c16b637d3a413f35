// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the studio page.
// The studio is a single page; interactive updates arrive as HTMX fragments
// written by the handlers, so the renderer only deals in full pages.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"campaignstudio/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title        string           // Page title for <title> tag
	Session      *session.Session // Current campaign session
	ImageEnabled bool             // whether the image provider is configured
	Results      template.HTML    // pre-rendered results fragment, if any
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. When devMode is true, templates use CDN-hosted assets
// (TailwindCSS, HTMX); when false, they reference local static files.
func New(devMode bool) (*Renderer, error) {
	funcMap := template.FuncMap{
		"isDev": func() bool { return devMode },
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name[:len(name)-len(".html")]] = tmpl
	}

	return r, nil
}

// Page renders a full page template.
func (rn *Renderer) Page(w http.ResponseWriter, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name+".html", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
