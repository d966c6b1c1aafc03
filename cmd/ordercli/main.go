// Command ordercli places one order through the saga and prints the
// resulting order status and audit trail. It exists to drive the engine
// from outside a test process; it is not the HTTP submission surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/director74/ordersaga/internal/intake"
	"github.com/director74/ordersaga/internal/orchestrator"
	"github.com/director74/ordersaga/internal/repo"
	"github.com/director74/ordersaga/internal/saga"
	"github.com/director74/ordersaga/internal/service"
	"github.com/director74/ordersaga/internal/uow"
	"github.com/director74/ordersaga/pkg/config"
	"github.com/director74/ordersaga/pkg/database"
)

func main() {
	userID := flag.Uint("user", 0, "user id")
	sku := flag.String("sku", "", "inventory SKU")
	qty := flag.Int("qty", 1, "quantity")
	promoCode := flag.String("promo", "", "promo code (optional)")
	failAtStep := flag.String("fail-at", "", "inject a failure at this step name (testing only)")
	flag.Parse()

	if *userID == 0 || *sku == "" {
		fmt.Fprintln(os.Stderr, "usage: ordercli -user=<id> -sku=<sku> -qty=<n> [-promo=<code>] [-fail-at=<step>]")
		os.Exit(2)
	}

	logger := log.New(os.Stdout, "[ordercli] ", log.LstdFlags)

	cfg := config.Load("ordersaga")
	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer database.CloseDB(db)

	users := repo.NewUserRepository(db)
	items := repo.NewInventoryItemRepository(db)
	promoCodes := repo.NewPromoCodeRepository(db)
	orders := repo.NewOrderRepository(db)
	sagaSteps := repo.NewSagaStepRepository(db)
	promoApplications := repo.NewPromoApplicationRepository(db)
	reservations := repo.NewInventoryReservationRepository(db)
	payments := repo.NewPaymentRepository(db)

	u := uow.New(db)
	runner := saga.NewRunner(u, sagaSteps, logger)

	discounts := service.NewDiscountsService(promoCodes, promoApplications)
	inventory := service.NewInventoryService(items, reservations)
	billing := service.NewBillingService(users, payments)

	orch := orchestrator.New(orders, discounts, inventory, billing, runner, u, logger)
	intakeSvc := intake.New(users, items, promoCodes, orders, sagaSteps, discounts, orch, logger)

	result, err := intakeSvc.PlaceOrder(context.Background(), intake.Request{
		UserID:     *userID,
		SKU:        *sku,
		Qty:        *qty,
		PromoCode:  *promoCode,
		FailAtStep: *failAtStep,
	})
	if err != nil {
		logger.Fatalf("place order: %v", err)
	}

	fmt.Printf("order %d: success=%v status=%s base=%s discount=%s final=%s\n",
		result.Order.ID, result.Success, result.Order.Status,
		result.Order.BaseAmount, result.Order.DiscountAmount, result.Order.FinalAmount)
	fmt.Println("audit trail:")
	for _, step := range result.Steps {
		fmt.Printf("  %-28s %-12s %s\n", step.StepName, step.Status, step.Error)
	}
}
