package entity

import (
	"time"

	"github.com/google/uuid"
)

// SagaStepStatus is the lifecycle of one audit row. A row transitions only
// from STARTED to a terminal status; it is never reopened.
type SagaStepStatus string

const (
	SagaStepStarted     SagaStepStatus = "STARTED"
	SagaStepCompleted   SagaStepStatus = "COMPLETED"
	SagaStepFailed      SagaStepStatus = "FAILED"
	SagaStepCompensated SagaStepStatus = "COMPENSATED"
)

// SagaStep is one audit row: either a forward step or a "Compensate_<name>"
// compensation, recorded so the outcome of a saga run is reconstructible from
// the database alone.
type SagaStep struct {
	ID         uint           `gorm:"primaryKey"`
	RunID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	OrderID    uint           `gorm:"not null;index"`
	StepName   string         `gorm:"not null;size:64"`
	Status     SagaStepStatus `gorm:"not null;size:20"`
	Error      string         `gorm:"type:text"`
	StartedAt  time.Time      `gorm:"not null"`
	FinishedAt *time.Time
}

func (SagaStep) TableName() string {
	return "saga_steps"
}

// CompensationName is the step name recorded for a step's compensating
// action, using the "Compensate_<name>" convention.
func CompensationName(stepName string) string {
	return "Compensate_" + stepName
}
