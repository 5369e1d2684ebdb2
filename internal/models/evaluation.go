package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EvaluationStatus string

const (
	EvaluationCompleted EvaluationStatus = "completed"
	EvaluationFailed    EvaluationStatus = "failed"
)

// Evaluation: результат внешней AI-оценки доказательств по контролю.
type Evaluation struct {
	gorm.Model
	ControlID uint    `gorm:"index;not null" json:"control_id"`
	Control   Control `json:"-"`

	Evidence  string           `gorm:"type:text" json:"evidence"`
	Status    EvaluationStatus `gorm:"type:varchar(16);not null" json:"status"`
	Score     *float64         `json:"score"`
	Verdict   string           `gorm:"size:64" json:"verdict"`
	Rationale string           `gorm:"type:text" json:"rationale"`
	Error     string           `gorm:"type:text" json:"error,omitempty"`
	Response  datatypes.JSON   `json:"response,omitempty"`

	RequestedBy *uint `json:"requested_by,omitempty"`
}
