package contracts

import (
	"time"
)

// Stage represents a pipeline stage
//
// 파이프라인 흐름:
//   Listing → Enrichment → Presentation
type Stage string

const (
	// StageListing: aggregator page fetch + table parse
	// 위치: internal/external/dataroma/
	StageListing Stage = "LISTING"

	// StageEnrichment: per-ticker quote lookup and merge
	// 위치: internal/screener/
	StageEnrichment Stage = "ENRICHMENT"

	// StageDone: rows sorted and handed to presentation
	StageDone Stage = "DONE"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// Progress is the fractional completion signal of one run
type Progress struct {
	RunID string `json:"run_id"`
	Stage Stage  `json:"stage"`
	Done  int    `json:"done"`
	Total int    `json:"total"`
}

// Fraction returns done/total in [0,1]
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		if p.Stage == StageDone {
			return 1.0
		}
		return 0.0
	}
	return float64(p.Done) / float64(p.Total)
}

// Result is the output of one pipeline run
type Result struct {
	RunID     string        `json:"run_id"`
	Rows      []EnrichedRow `json:"rows"`
	Listed    int           `json:"listed"`
	Enriched  int           `json:"enriched"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}
