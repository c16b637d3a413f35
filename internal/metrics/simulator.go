// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics simulates A/B performance numbers for campaign variants.
// The rates are uniform random draws from fixed ranges — a stand-in for real
// analytics, kept behind a seedable source so the orchestrator contract
// survives a future replacement with a real model.
package metrics

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Simulation ranges. The display layer treats all three as percentages.
const (
	ctrMin, ctrMax               = 2.1, 8.5
	engagementMin, engagementMax = 15.0, 45.0
	conversionMin, conversionMax = 1.2, 4.8
)

// Rates is one variant's simulated performance snapshot.
type Rates struct {
	CTR        float64 `json:"ctr"`        // click-through rate, 2 decimals
	Engagement float64 `json:"engagement"` // engagement rate, 1 decimal
	Conversion float64 `json:"conversion"` // conversion rate, 2 decimals
}

// Simulator draws bounded random performance rates. Safe for concurrent use;
// the shared instance serializes draws with a mutex because *rand.Rand is not
// goroutine-safe.
type Simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a time-seeded simulator. Repeated draws intentionally differ —
// the numbers are decoration for the A/B comparison, not persisted data.
func New() *Simulator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a simulator using the given source, letting tests
// pin the sequence and assert exact values.
func NewWithSource(src rand.Source) *Simulator {
	return &Simulator{rnd: rand.New(src)}
}

// Draw produces one fresh simulation snapshot. Every value is inside its
// fixed range after rounding: CTR in [2.1, 8.5] (2 decimals), engagement in
// [15, 45] (1 decimal), conversion in [1.2, 4.8] (2 decimals).
func (s *Simulator) Draw() Rates {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Rates{
		CTR:        roundTo(s.uniform(ctrMin, ctrMax), 2),
		Engagement: roundTo(s.uniform(engagementMin, engagementMax), 1),
		Conversion: roundTo(s.uniform(conversionMin, conversionMax), 2),
	}
}

// uniform draws from [min, max).
func (s *Simulator) uniform(min, max float64) float64 {
	return min + s.rnd.Float64()*(max-min)
}

// roundTo rounds x to the given number of decimal places.
func roundTo(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}

// Score collapses a snapshot into a single comparable number. Conversion is
// weighted heaviest, engagement lightest, matching how the recommendation
// has always been computed in this tool.
func Score(r Rates) float64 {
	return r.CTR + r.Engagement*0.1 + r.Conversion*2
}

// Recommend returns the display label of the better-scoring variant.
// Ties go to variant A.
func Recommend(a, b Rates) string {
	if Score(b) > Score(a) {
		return "Variant B"
	}
	return "Variant A"
}
