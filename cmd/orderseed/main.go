// Command orderseed populates a fresh database with the reference catalog
// used by the end-to-end scenarios: two users, three inventory items, and
// three promo codes, one of them already exhausted.
package main

import (
	"log"
	"os"

	"github.com/shopspring/decimal"

	"github.com/director74/ordersaga/internal/entity"
	"github.com/director74/ordersaga/pkg/config"
	"github.com/director74/ordersaga/pkg/database"
)

func main() {
	logger := log.New(os.Stdout, "[orderseed] ", log.LstdFlags)

	cfg := config.Load("ordersaga")
	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrateWithCleanup(db,
		&entity.User{},
		&entity.InventoryItem{},
		&entity.PromoCode{},
		&entity.Order{},
		&entity.SagaStep{},
		&entity.PromoApplication{},
		&entity.InventoryReservation{},
		&entity.Payment{},
	); err != nil {
		logger.Fatalf("migrate schema: %v", err)
	}

	users := []entity.User{
		{ID: 1, Name: "Ivan Ivanov", Balance: decimal.NewFromFloat(1000)},
		{ID: 2, Name: "Petr Petrov", Balance: decimal.NewFromFloat(50)},
	}
	for _, u := range users {
		if err := db.Save(&u).Error; err != nil {
			logger.Fatalf("seed user %d: %v", u.ID, err)
		}
	}

	items := []entity.InventoryItem{
		{SKU: "ITEM001", Name: "Laptop", Price: decimal.NewFromFloat(100), OnHand: 10},
		{SKU: "ITEM002", Name: "Mouse", Price: decimal.NewFromFloat(100), OnHand: 5},
		{SKU: "ITEM003", Name: "Keyboard", Price: decimal.NewFromFloat(50), OnHand: 0},
	}
	for _, it := range items {
		if err := db.Save(&it).Error; err != nil {
			logger.Fatalf("seed item %s: %v", it.SKU, err)
		}
	}

	promos := []entity.PromoCode{
		{Code: "DISCOUNT10", RemainingUses: 5, DiscountAmount: decimal.NewFromFloat(10)},
		{Code: "ONETIME", RemainingUses: 1, DiscountAmount: decimal.NewFromFloat(20)},
		{Code: "EXPIRED", RemainingUses: 0, DiscountAmount: decimal.NewFromFloat(15)},
	}
	for _, p := range promos {
		if err := db.Save(&p).Error; err != nil {
			logger.Fatalf("seed promo %s: %v", p.Code, err)
		}
	}

	logger.Printf("seeded %d users, %d items, %d promo codes", len(users), len(items), len(promos))
}
