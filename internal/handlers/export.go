// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"campaignstudio/internal/campaign"
	"campaignstudio/internal/middleware"
)

// ExportJSON streams the campaign as a downloadable JSON document. The
// performance simulation is drawn fresh at export time, same as on render.
func (s *Studio) ExportJSON(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if !sess.HasVariants() {
		http.Error(w, "no campaign to export", http.StatusNotFound)
		return
	}

	export := campaign.NewExport(sess.Brief, *sess.Variants, s.simulator.Draw(), s.simulator.Draw())

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		slog.Error("export marshal failed", "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="campaign.json"`)
	w.Write(data)
}

// ExportZIP bundles the generated variant images into a ZIP download.
// Variants without a rendered image are simply absent from the archive.
func (s *Studio) ExportZIP(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var available []string
	for _, id := range campaign.VariantIDs() {
		if _, ok := sess.Image(id); ok {
			available = append(available, id)
		}
	}
	if len(available) == 0 {
		http.Error(w, "no generated images to export", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="images.zip"`)

	zw := zip.NewWriter(w)
	for _, id := range available {
		img, _ := sess.Image(id)
		f, err := zw.Create(fmt.Sprintf("variant_%s_image.png", id))
		if err != nil {
			slog.Error("zip entry failed", "variant", id, "error", err)
			return
		}
		if _, err := f.Write(img); err != nil {
			slog.Error("zip write failed", "variant", id, "error", err)
			return
		}
	}
	if err := zw.Close(); err != nil {
		slog.Error("zip close failed", "error", err)
	}
}
