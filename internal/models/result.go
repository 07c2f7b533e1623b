package models

import "encoding/json"

type ErrorResponse struct {
	Message     string `json:"message"`
	Error       string `json:"error,omitempty"`
	RawResponse string `json:"rawResponse,omitempty"`
}

// ViewRequest carries a report as received from the client; it is validated
// again before rendering.
type ViewRequest struct {
	Report                 json.RawMessage `json:"report"`
	JobDescriptionSupplied bool            `json:"jobDescriptionSupplied"`
}

type HistoryResponse struct {
	Analyses []AnalysisRecord `json:"analyses"`
	Count    int              `json:"count"`
}

// Phase is the client-visible state of the analysis page.
type Phase string

const (
	PhaseInput  Phase = "input"
	PhaseReport Phase = "report"
)
