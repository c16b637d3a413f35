// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package campaign

import (
	"time"

	"github.com/google/uuid"

	"campaignstudio/internal/metrics"
)

// Export is the JSON document offered for download once variants exist.
// The key names are part of the download format and must stay stable.
type Export struct {
	ID                    uuid.UUID              `json:"export_id"`
	ExportedAt            time.Time              `json:"exported_at"`
	CreativeBrief         string                 `json:"creative_brief"`
	Variants              CampaignVariants       `json:"variants"`
	PerformanceSimulation map[string]metrics.Rates `json:"performance_simulation"`
	Recommendation        string                 `json:"recommendation"`
}

// NewExport assembles the export document for a generated campaign.
// The rates passed in are the same simulation snapshot the recommendation
// was computed from, so the document is internally consistent.
func NewExport(brief string, v CampaignVariants, rateA, rateB metrics.Rates) Export {
	return Export{
		ID:            uuid.New(),
		ExportedAt:    time.Now().UTC(),
		CreativeBrief: brief,
		Variants:      v,
		PerformanceSimulation: map[string]metrics.Rates{
			"variant_a": rateA,
			"variant_b": rateB,
		},
		Recommendation: metrics.Recommend(rateA, rateB),
	}
}
