package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
)

// SagaStepRepository persists the audit trail of forward steps and
// compensations run against an order.
type SagaStepRepository interface {
	// Start records a STARTED row and returns its id.
	Start(ctx context.Context, db *gorm.DB, runID uuid.UUID, orderID uint, stepName string) (uint, error)
	// Finish transitions a row to a terminal status, setting errMsg when
	// status is not COMPLETED.
	Finish(ctx context.Context, db *gorm.DB, stepID uint, status entity.SagaStepStatus, errMsg string) error
	// RecordCompensation inserts a single row already in its terminal
	// COMPLETED state, per the compensation audit protocol: a
	// compensation that ran to completion never passes through STARTED.
	RecordCompensation(ctx context.Context, db *gorm.DB, runID uuid.UUID, orderID uint, stepName string) error
	ListByRunID(ctx context.Context, runID uuid.UUID) ([]entity.SagaStep, error)
	ListByOrderID(ctx context.Context, orderID uint) ([]entity.SagaStep, error)
}

type SagaStepRepositoryImpl struct {
	db *gorm.DB
}

func NewSagaStepRepository(db *gorm.DB) SagaStepRepository {
	return &SagaStepRepositoryImpl{db: db}
}

func (r *SagaStepRepositoryImpl) Start(ctx context.Context, db *gorm.DB, runID uuid.UUID, orderID uint, stepName string) (uint, error) {
	row := entity.SagaStep{
		RunID:     runID,
		OrderID:   orderID,
		StepName:  stepName,
		Status:    entity.SagaStepStarted,
		StartedAt: time.Now(),
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (r *SagaStepRepositoryImpl) Finish(ctx context.Context, db *gorm.DB, stepID uint, status entity.SagaStepStatus, errMsg string) error {
	now := time.Now()
	return db.WithContext(ctx).Model(&entity.SagaStep{}).Where("id = ?", stepID).Updates(map[string]interface{}{
		"status":      status,
		"error":       errMsg,
		"finished_at": &now,
	}).Error
}

func (r *SagaStepRepositoryImpl) RecordCompensation(ctx context.Context, db *gorm.DB, runID uuid.UUID, orderID uint, stepName string) error {
	now := time.Now()
	row := entity.SagaStep{
		RunID:      runID,
		OrderID:    orderID,
		StepName:   stepName,
		Status:     entity.SagaStepCompleted,
		StartedAt:  now,
		FinishedAt: &now,
	}
	return db.WithContext(ctx).Create(&row).Error
}

func (r *SagaStepRepositoryImpl) ListByRunID(ctx context.Context, runID uuid.UUID) ([]entity.SagaStep, error) {
	var rows []entity.SagaStep
	err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *SagaStepRepositoryImpl) ListByOrderID(ctx context.Context, orderID uint) ([]entity.SagaStep, error) {
	var rows []entity.SagaStep
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&rows).Error
	return rows, err
}
