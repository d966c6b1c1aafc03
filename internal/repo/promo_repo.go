package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/director74/ordersaga/internal/entity"
)

var ErrPromoCodeNotFound = errors.New("promo code not found")

var ErrPromoExhausted = errors.New("promo code has no remaining uses")

// PromoCodeRepository persists discount codes.
type PromoCodeRepository interface {
	Create(ctx context.Context, promo *entity.PromoCode) error
	GetByCode(ctx context.Context, code string) (*entity.PromoCode, error)
	// ConsumeUse atomically decrements remaining_uses by one, but only if
	// at least one use remains.
	ConsumeUse(ctx context.Context, db *gorm.DB, code string) error
	// RestoreUse atomically increments remaining_uses by one.
	RestoreUse(ctx context.Context, db *gorm.DB, code string) error
}

type PromoCodeRepositoryImpl struct {
	db *gorm.DB
}

func NewPromoCodeRepository(db *gorm.DB) PromoCodeRepository {
	return &PromoCodeRepositoryImpl{db: db}
}

func (r *PromoCodeRepositoryImpl) Create(ctx context.Context, promo *entity.PromoCode) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

func (r *PromoCodeRepositoryImpl) GetByCode(ctx context.Context, code string) (*entity.PromoCode, error) {
	var promo entity.PromoCode
	if err := r.db.WithContext(ctx).First(&promo, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoCodeNotFound
		}
		return nil, err
	}
	return &promo, nil
}

func (r *PromoCodeRepositoryImpl) ConsumeUse(ctx context.Context, db *gorm.DB, code string) error {
	var promo entity.PromoCode
	if err := db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&promo, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromoCodeNotFound
		}
		return err
	}

	if promo.RemainingUses < 1 {
		return ErrPromoExhausted
	}

	result := db.WithContext(ctx).Model(&entity.PromoCode{}).
		Where("code = ? AND remaining_uses >= 1", code).
		Update("remaining_uses", gorm.Expr("remaining_uses - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPromoExhausted
	}
	return nil
}

func (r *PromoCodeRepositoryImpl) RestoreUse(ctx context.Context, db *gorm.DB, code string) error {
	result := db.WithContext(ctx).Model(&entity.PromoCode{}).
		Where("code = ?", code).
		Update("remaining_uses", gorm.Expr("remaining_uses + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPromoCodeNotFound
	}
	return nil
}
