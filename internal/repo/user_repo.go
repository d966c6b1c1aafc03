package repo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/director74/ordersaga/internal/entity"
)

// ErrUserNotFound is returned when a user id does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrInsufficientBalance is returned when a charge would drive a balance
// negative. The conditional update never applies in that case.
var ErrInsufficientBalance = errors.New("insufficient balance")

// UserRepository persists wallet holders.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	// Charge atomically decrements balance by amount, but only if the
	// resulting balance would not go negative. db must be the transaction
	// the caller is driving the saga step under.
	Charge(ctx context.Context, db *gorm.DB, userID uint, amount decimal.Decimal) error
	// Refund atomically increments balance by amount.
	Refund(ctx context.Context, db *gorm.DB, userID uint, amount decimal.Decimal) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Charge(ctx context.Context, db *gorm.DB, userID uint, amount decimal.Decimal) error {
	var user entity.User
	if err := db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}

	result := db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

func (r *UserRepositoryImpl) Refund(ctx context.Context, db *gorm.DB, userID uint, amount decimal.Decimal) error {
	result := db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
