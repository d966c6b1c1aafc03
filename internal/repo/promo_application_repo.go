package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
)

// PromoApplicationRepository persists which order applied which promo code.
type PromoApplicationRepository interface {
	Create(ctx context.Context, db *gorm.DB, app *entity.PromoApplication) error
	Cancel(ctx context.Context, db *gorm.DB, orderID uint, code string) error
}

type PromoApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewPromoApplicationRepository(db *gorm.DB) PromoApplicationRepository {
	return &PromoApplicationRepositoryImpl{db: db}
}

func (r *PromoApplicationRepositoryImpl) Create(ctx context.Context, db *gorm.DB, app *entity.PromoApplication) error {
	app.Status = entity.PromoApplicationApplied
	return db.WithContext(ctx).Create(app).Error
}

func (r *PromoApplicationRepositoryImpl) Cancel(ctx context.Context, db *gorm.DB, orderID uint, code string) error {
	return db.WithContext(ctx).Model(&entity.PromoApplication{}).
		Where("order_id = ? AND code = ? AND status = ?", orderID, code, entity.PromoApplicationApplied).
		Update("status", entity.PromoApplicationCancelled).Error
}
