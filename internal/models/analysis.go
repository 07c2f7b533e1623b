package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusCompleted AnalysisStatus = "completed"
	StatusFailed    AnalysisStatus = "failed"
)

// AnalysisRequest is one user-initiated analysis. It lives for a single
// request and is never persisted.
type AnalysisRequest struct {
	Document       []byte
	FileName       string
	JobDescription string
}

// AnalysisRecord is the audit trail of an analysis run. Neither the document
// nor the report body is stored.
type AnalysisRecord struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FileName               string         `gorm:"type:text" json:"file_name"`
	FileSize               int64          `json:"file_size"`
	JobDescriptionSupplied bool           `gorm:"not null;default:false" json:"job_description_supplied"`
	Status                 AnalysisStatus `gorm:"not null" json:"status"`
	ErrorKind              string         `gorm:"type:text" json:"error_kind,omitempty"`
	Score                  *int           `json:"score,omitempty"`
	DurationMs             int64          `json:"duration_ms"`
	CreatedAt              time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AnalysisRecord) TableName() string {
	return "analysis_records"
}
