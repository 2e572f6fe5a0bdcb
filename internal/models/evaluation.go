package models

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationStatus string

const (
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

type Evaluation struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobTitle      string           `gorm:"type:text" json:"job_title"`
	CVDocumentID  uuid.UUID        `gorm:"type:uuid;not null" json:"cv_document_id"`
	JobDocumentID uuid.UUID        `gorm:"type:uuid;not null" json:"job_document_id"`
	Status        EvaluationStatus `gorm:"not null;default:'queued'" json:"status"`
	Decision      *string          `gorm:"type:text" json:"decision,omitempty"`
	OverallRaw    *float64         `gorm:"type:decimal(5,4)" json:"overall_raw,omitempty"`
	OverallMean   *float64         `gorm:"type:decimal(5,4)" json:"overall_mean,omitempty"`
	Report        *string          `gorm:"type:jsonb" json:"report,omitempty"`
	ErrorMessage  *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt     time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	CVDocument  Document `gorm:"foreignKey:CVDocumentID" json:"-"`
	JobDocument Document `gorm:"foreignKey:JobDocumentID" json:"-"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
