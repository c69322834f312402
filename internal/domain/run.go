package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRun is the persisted summary of one analysed conversation.
type AnalysisRun struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Source           string    `json:"source"`
	InformationCount int       `json:"information_count"`
	ArgumentCount    int       `json:"argument_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// TrustRow is one propagated trust value of a run, for one weight and preset.
type TrustRow struct {
	RunID         uuid.UUID `json:"run_id"`
	Weight        int       `json:"weight"`
	Configuration string    `json:"configuration"`
	InformationID uuid.UUID `json:"information_id"`
	Timing        int       `json:"timing"`
	Message       string    `json:"message"`
	InitialTrust  float64   `json:"initial_trust"`
	CurrentTrust  float64   `json:"current_trust"`
}
