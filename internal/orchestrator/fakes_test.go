package orchestrator_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/director74/ordersaga/internal/entity"
	"github.com/director74/ordersaga/internal/repo"
)

// fakeUOW hands out an opaque *gorm.DB as a transaction token. No real
// connection backs it: the fake repositories below ignore the token and
// mutate their own in-memory state directly, so Begin/Commit/Rollback only
// need to satisfy uow.Provider's shape for the orchestrator's control flow.
type fakeUOW struct{}

func (fakeUOW) Begin(ctx context.Context) (*gorm.DB, error) { return &gorm.DB{}, nil }
func (fakeUOW) Commit(tx *gorm.DB) error                    { return nil }
func (fakeUOW) Rollback(tx *gorm.DB)                        {}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*entity.User
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	m := make(map[uint]*entity.User, len(users))
	for i := range users {
		u := users[i]
		m[u.ID] = &u
	}
	return &fakeUserRepo{users: m}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Charge(ctx context.Context, db *gorm.DB, userID uint, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repo.ErrUserNotFound
	}
	if u.Balance.LessThan(amount) {
		return repo.ErrInsufficientBalance
	}
	u.Balance = u.Balance.Sub(amount)
	return nil
}

func (r *fakeUserRepo) Refund(ctx context.Context, db *gorm.DB, userID uint, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repo.ErrUserNotFound
	}
	u.Balance = u.Balance.Add(amount)
	return nil
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]*entity.InventoryItem
}

func newFakeItemRepo(items ...entity.InventoryItem) *fakeItemRepo {
	m := make(map[string]*entity.InventoryItem, len(items))
	for i := range items {
		it := items[i]
		m[it.SKU] = &it
	}
	return &fakeItemRepo{items: m}
}

func (r *fakeItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.SKU] = item
	return nil
}

func (r *fakeItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[sku]
	if !ok {
		return nil, repo.ErrInventoryItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) Decrement(ctx context.Context, db *gorm.DB, sku string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[sku]
	if !ok {
		return repo.ErrInventoryItemNotFound
	}
	if it.OnHand < qty {
		return repo.ErrInsufficientStock
	}
	it.OnHand -= qty
	return nil
}

func (r *fakeItemRepo) Increment(ctx context.Context, db *gorm.DB, sku string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[sku]
	if !ok {
		return repo.ErrInventoryItemNotFound
	}
	it.OnHand += qty
	return nil
}

type fakePromoRepo struct {
	mu     sync.Mutex
	promos map[string]*entity.PromoCode
}

func newFakePromoRepo(promos ...entity.PromoCode) *fakePromoRepo {
	m := make(map[string]*entity.PromoCode, len(promos))
	for i := range promos {
		p := promos[i]
		m[p.Code] = &p
	}
	return &fakePromoRepo{promos: m}
}

func (r *fakePromoRepo) Create(ctx context.Context, promo *entity.PromoCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promos[promo.Code] = promo
	return nil
}

func (r *fakePromoRepo) GetByCode(ctx context.Context, code string) (*entity.PromoCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.promos[code]
	if !ok {
		return nil, repo.ErrPromoCodeNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePromoRepo) ConsumeUse(ctx context.Context, db *gorm.DB, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.promos[code]
	if !ok {
		return repo.ErrPromoCodeNotFound
	}
	if p.RemainingUses < 1 {
		return repo.ErrPromoExhausted
	}
	p.RemainingUses--
	return nil
}

func (r *fakePromoRepo) RestoreUse(ctx context.Context, db *gorm.DB, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.promos[code]
	if !ok {
		return repo.ErrPromoCodeNotFound
	}
	p.RemainingUses++
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uint]*entity.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*entity.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = r.nextID
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uint) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, repo.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, db *gorm.DB, orderID uint, status entity.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return repo.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

type fakeSagaStepRepo struct {
	mu     sync.Mutex
	rows   []entity.SagaStep
	nextID uint
}

func newFakeSagaStepRepo() *fakeSagaStepRepo {
	return &fakeSagaStepRepo{}
}

func (r *fakeSagaStepRepo) Start(ctx context.Context, db *gorm.DB, runID uuid.UUID, orderID uint, stepName string) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.rows = append(r.rows, entity.SagaStep{
		ID:        r.nextID,
		RunID:     runID,
		OrderID:   orderID,
		StepName:  stepName,
		Status:    entity.SagaStepStarted,
		StartedAt: time.Now(),
	})
	return r.nextID, nil
}

func (r *fakeSagaStepRepo) Finish(ctx context.Context, db *gorm.DB, stepID uint, status entity.SagaStepStatus, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == stepID {
			now := time.Now()
			r.rows[i].Status = status
			r.rows[i].Error = errMsg
			r.rows[i].FinishedAt = &now
			return nil
		}
	}
	return nil
}

func (r *fakeSagaStepRepo) RecordCompensation(ctx context.Context, db *gorm.DB, runID uuid.UUID, orderID uint, stepName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now()
	r.rows = append(r.rows, entity.SagaStep{
		ID:         r.nextID,
		RunID:      runID,
		OrderID:    orderID,
		StepName:   stepName,
		Status:     entity.SagaStepCompleted,
		StartedAt:  now,
		FinishedAt: &now,
	})
	return nil
}

func (r *fakeSagaStepRepo) ListByRunID(ctx context.Context, runID uuid.UUID) ([]entity.SagaStep, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.SagaStep
	for _, row := range r.rows {
		if row.RunID == runID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeSagaStepRepo) ListByOrderID(ctx context.Context, orderID uint) ([]entity.SagaStep, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.SagaStep
	for _, row := range r.rows {
		if row.OrderID == orderID {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakePromoApplicationRepo struct {
	mu   sync.Mutex
	apps []entity.PromoApplication
}

func newFakePromoApplicationRepo() *fakePromoApplicationRepo {
	return &fakePromoApplicationRepo{}
}

func (r *fakePromoApplicationRepo) Create(ctx context.Context, db *gorm.DB, app *entity.PromoApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app.Status = entity.PromoApplicationApplied
	app.ID = uint(len(r.apps) + 1)
	r.apps = append(r.apps, *app)
	return nil
}

func (r *fakePromoApplicationRepo) Cancel(ctx context.Context, db *gorm.DB, orderID uint, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.apps {
		if r.apps[i].OrderID == orderID && r.apps[i].Code == code && r.apps[i].Status == entity.PromoApplicationApplied {
			r.apps[i].Status = entity.PromoApplicationCancelled
		}
	}
	return nil
}

type fakeInventoryReservationRepo struct {
	mu           sync.Mutex
	reservations []entity.InventoryReservation
}

func newFakeInventoryReservationRepo() *fakeInventoryReservationRepo {
	return &fakeInventoryReservationRepo{}
}

func (r *fakeInventoryReservationRepo) Create(ctx context.Context, db *gorm.DB, reservation *entity.InventoryReservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation.Status = entity.InventoryReservationReserved
	reservation.ID = uint(len(r.reservations) + 1)
	r.reservations = append(r.reservations, *reservation)
	return nil
}

func (r *fakeInventoryReservationRepo) Release(ctx context.Context, db *gorm.DB, orderID uint, sku string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reservations {
		if r.reservations[i].OrderID == orderID && r.reservations[i].SKU == sku && r.reservations[i].Status == entity.InventoryReservationReserved {
			r.reservations[i].Status = entity.InventoryReservationReleased
		}
	}
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{}
}

func (r *fakePaymentRepo) Create(ctx context.Context, db *gorm.DB, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment.Status = entity.PaymentCharged
	payment.ID = uint(len(r.payments) + 1)
	r.payments = append(r.payments, *payment)
	return nil
}

func (r *fakePaymentRepo) Refund(ctx context.Context, db *gorm.DB, orderID, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.payments {
		if r.payments[i].OrderID == orderID && r.payments[i].UserID == userID && r.payments[i].Status == entity.PaymentCharged {
			r.payments[i].Status = entity.PaymentRefunded
		}
	}
	return nil
}
