// Package fake provides an in-memory UnitOfWork with transactional rollback
// semantics for usecase tests. A transaction works on a deep copy of the state
// and swaps it in on success, so a failed batch leaves no trace, matching the
// database behaviour the commands rely on.
package fake

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/inventory"
	"storefront/internal/domain/order"
	"storefront/internal/infra"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var errNotFound = errors.New("not found")

type VariantState struct {
	ProductID  uuid.UUID
	PriceCents int64
	Stock      int
	Reserved   int
	Reorder    int
}

type PromoUsage struct {
	PromoID uuid.UUID
	UserID  uuid.UUID
	OrderID uuid.UUID
	UsedAt  time.Time
}

type StoredOrder struct {
	Snapshot shared.OrderSnapshot
	Totals   order.Totals
}

type NotificationJob struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type state struct {
	variants        map[uuid.UUID]*VariantState
	promos          map[uuid.UUID]*shared.PromoSnapshot
	promoUsages     []PromoUsage
	orders          map[uuid.UUID]*StoredOrder
	carts           map[uuid.UUID]*shared.CartSnapshot // keyed by user id
	shippingMethods map[uuid.UUID]*shared.ShippingMethodSnapshot
	jobs            []NotificationJob
}

func newState() *state {
	return &state{
		variants:        make(map[uuid.UUID]*VariantState),
		promos:          make(map[uuid.UUID]*shared.PromoSnapshot),
		orders:          make(map[uuid.UUID]*StoredOrder),
		carts:           make(map[uuid.UUID]*shared.CartSnapshot),
		shippingMethods: make(map[uuid.UUID]*shared.ShippingMethodSnapshot),
	}
}

func (s *state) clone() *state {
	next := newState()
	for id, v := range s.variants {
		cp := *v
		next.variants[id] = &cp
	}
	for id, p := range s.promos {
		cp := *p
		next.promos[id] = &cp
	}
	next.promoUsages = append([]PromoUsage(nil), s.promoUsages...)
	for id, o := range s.orders {
		cp := *o
		next.orders[id] = &cp
	}
	for id, c := range s.carts {
		cp := *c
		cp.Lines = append([]shared.CartLine(nil), c.Lines...)
		next.carts[id] = &cp
	}
	for id, m := range s.shippingMethods {
		cp := *m
		next.shippingMethods[id] = &cp
	}
	next.jobs = append([]NotificationJob(nil), s.jobs...)
	return next
}

var _ shared.UnitOfWork = (*UoW)(nil)

// UoW serializes transactions with one mutex; conditional updates inside a
// transaction are therefore atomic with respect to concurrent callers.
type UoW struct {
	mu    sync.Mutex
	state *state

	// Failure injection for compensation paths.
	FailOrderCreate    error
	FailCartClear      error
	FailNotification   error
	FailPromoIncrement error
}

func NewUoW() *UoW {
	return &UoW{state: newState()}
}

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	next := u.state.clone()
	if err := fn(ctx, &fakeTx{uow: u, state: next}); err != nil {
		return err
	}
	u.state = next
	return nil
}

func (u *UoW) Reads() shared.CommandReads {
	return &fakeReads{uow: u}
}

// Seed helpers. Not safe to call concurrently with commands.

func (u *UoW) SeedVariant(id uuid.UUID, v VariantState) {
	cp := v
	u.state.variants[id] = &cp
}

func (u *UoW) SeedPromo(snap *shared.PromoSnapshot) {
	cp := *snap
	u.state.promos[snap.ID] = &cp
}

func (u *UoW) SeedPromoUsage(promoID, userID, orderID uuid.UUID, usedAt time.Time) {
	u.state.promoUsages = append(u.state.promoUsages, PromoUsage{
		PromoID: promoID, UserID: userID, OrderID: orderID, UsedAt: usedAt,
	})
}

func (u *UoW) SeedCart(cart *shared.CartSnapshot) {
	cp := *cart
	cp.Lines = append([]shared.CartLine(nil), cart.Lines...)
	u.state.carts[cart.UserID] = &cp
}

func (u *UoW) SeedShippingMethod(m *shared.ShippingMethodSnapshot) {
	cp := *m
	u.state.shippingMethods[m.ID] = &cp
}

func (u *UoW) SeedOrder(snap shared.OrderSnapshot, totals order.Totals) {
	u.state.orders[snap.ID] = &StoredOrder{Snapshot: snap, Totals: totals}
}

// Inspection helpers.

func (u *UoW) Variant(id uuid.UUID) VariantState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return *u.state.variants[id]
}

func (u *UoW) Promo(id uuid.UUID) shared.PromoSnapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return *u.state.promos[id]
}

func (u *UoW) PromoUsages() []PromoUsage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]PromoUsage(nil), u.state.promoUsages...)
}

func (u *UoW) Order(id uuid.UUID) (*StoredOrder, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	o, ok := u.state.orders[id]
	if !ok {
		return nil, false
	}
	cp := *o
	return &cp, true
}

func (u *UoW) OrderCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.state.orders)
}

func (u *UoW) CartByUserID(userID uuid.UUID) (*shared.CartSnapshot, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	c, ok := u.state.carts[userID]
	if !ok {
		return nil, false
	}
	cp := *c
	cp.Lines = append([]shared.CartLine(nil), c.Lines...)
	return &cp, true
}

func (u *UoW) Jobs() []NotificationJob {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]NotificationJob(nil), u.state.jobs...)
}

// fakeTx exposes repositories bound to a transaction's working copy.
type fakeTx struct {
	uow   *UoW
	state *state
}

func (t *fakeTx) Stock() shared.StockRepository { return &stockRepo{state: t.state} }
func (t *fakeTx) Promos() shared.PromoRepository { return &promoRepo{tx: t} }
func (t *fakeTx) Orders() shared.OrderRepository { return &orderRepo{tx: t} }
func (t *fakeTx) Carts() shared.CartRepository { return &cartRepo{tx: t} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &notificationRepo{tx: t} }

type stockRepo struct {
	state *state
}

func (r *stockRepo) ReserveOne(_ context.Context, variantID uuid.UUID, qty int) (bool, error) {
	v, ok := r.state.variants[variantID]
	if !ok {
		return false, infra.WrapRepoErr("variant not found", errNotFound, infra.KindNotFound)
	}
	if v.Stock-v.Reserved < qty {
		return false, nil
	}
	v.Reserved += qty
	return true, nil
}

func (r *stockRepo) AvailableForUpdate(_ context.Context, variantID uuid.UUID) (int, error) {
	v, ok := r.state.variants[variantID]
	if !ok {
		return 0, infra.WrapRepoErr("variant not found", errNotFound, infra.KindNotFound)
	}
	return v.Stock - v.Reserved, nil
}

func (r *stockRepo) Commit(_ context.Context, items []inventory.Line) error {
	for _, it := range items {
		v, ok := r.state.variants[it.VariantID]
		if !ok {
			return infra.WrapRepoErr("variant not found", errNotFound, infra.KindNotFound)
		}
		committed := it.Quantity
		if committed > v.Reserved {
			committed = v.Reserved
		}
		v.Reserved -= committed
		v.Stock -= committed
		if v.Stock < 0 {
			v.Stock = 0
		}
	}
	return nil
}

func (r *stockRepo) Release(_ context.Context, items []inventory.Line) error {
	for _, it := range items {
		v, ok := r.state.variants[it.VariantID]
		if !ok {
			return infra.WrapRepoErr("variant not found", errNotFound, infra.KindNotFound)
		}
		v.Reserved -= it.Quantity
		if v.Reserved < 0 {
			v.Reserved = 0
		}
	}
	return nil
}

func (r *stockRepo) Return(_ context.Context, items []inventory.Line) error {
	for _, it := range items {
		v, ok := r.state.variants[it.VariantID]
		if !ok {
			return infra.WrapRepoErr("variant not found", errNotFound, infra.KindNotFound)
		}
		v.Stock += it.Quantity
	}
	return nil
}

type promoRepo struct {
	tx *fakeTx
}

func (r *promoRepo) IncrementUsageIfUnderLimit(_ context.Context, promoID uuid.UUID) (bool, error) {
	if r.tx.uow.FailPromoIncrement != nil {
		return false, r.tx.uow.FailPromoIncrement
	}
	p, ok := r.tx.state.promos[promoID]
	if !ok {
		return false, infra.WrapRepoErr("promo not found", errNotFound, infra.KindNotFound)
	}
	if p.UsageLimit != nil && p.CurrentUsage >= *p.UsageLimit {
		return false, nil
	}
	p.CurrentUsage++
	return true, nil
}

func (r *promoRepo) CountUserUsage(_ context.Context, promoID, userID uuid.UUID) (int32, error) {
	var count int32
	for _, usage := range r.tx.state.promoUsages {
		if usage.PromoID == promoID && usage.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *promoRepo) InsertUsage(_ context.Context, promoID, userID, orderID uuid.UUID, usedAt time.Time) error {
	r.tx.state.promoUsages = append(r.tx.state.promoUsages, PromoUsage{
		PromoID: promoID, UserID: userID, OrderID: orderID, UsedAt: usedAt,
	})
	return nil
}

type orderRepo struct {
	tx *fakeTx
}

func (r *orderRepo) Create(_ context.Context, o *order.Order) error {
	if r.tx.uow.FailOrderCreate != nil {
		return r.tx.uow.FailOrderCreate
	}
	r.tx.state.orders[o.ID()] = &StoredOrder{
		Snapshot: shared.OrderSnapshot{
			ID:          o.ID(),
			OrderNumber: o.OrderNumber(),
			UserID:      o.UserID(),
			Status:      o.Status(),
			Lines:       o.Lines(),
			PromoID:     o.PromoID(),
			CreatedAt:   o.CreatedAt(),
			UpdatedAt:   o.UpdatedAt(),
		},
		Totals: o.Totals(),
	}
	return nil
}

func (r *orderRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	o, ok := r.tx.state.orders[id]
	if !ok {
		return nil, infra.WrapRepoErr("order not found", errNotFound, infra.KindNotFound)
	}
	snap := o.Snapshot
	return &snap, nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status, updatedAt time.Time) error {
	o, ok := r.tx.state.orders[id]
	if !ok {
		return infra.WrapRepoErr("order not found", errNotFound, infra.KindNotFound)
	}
	o.Snapshot.Status = status
	o.Snapshot.UpdatedAt = updatedAt
	return nil
}

type cartRepo struct {
	tx *fakeTx
}

func (r *cartRepo) Clear(_ context.Context, cartID uuid.UUID) error {
	if r.tx.uow.FailCartClear != nil {
		return r.tx.uow.FailCartClear
	}
	for _, c := range r.tx.state.carts {
		if c.ID == cartID {
			c.Lines = nil
		}
	}
	return nil
}

type notificationRepo struct {
	tx *fakeTx
}

func (r *notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	if r.tx.uow.FailNotification != nil {
		return r.tx.uow.FailNotification
	}
	r.tx.state.jobs = append(r.tx.state.jobs, NotificationJob{
		Kind: kind, Topic: topic, Payload: payload, RunAt: runAt,
	})
	return nil
}

// fakeReads serves snapshots from the committed state.
type fakeReads struct {
	uow *UoW
}

func (r *fakeReads) CartByUser(_ context.Context, userID uuid.UUID) (*shared.CartSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	c, ok := r.uow.state.carts[userID]
	if !ok {
		return nil, infra.WrapRepoErr("cart not found", errNotFound, infra.KindNotFound)
	}
	cp := *c
	cp.Lines = append([]shared.CartLine(nil), c.Lines...)
	return &cp, nil
}

func (r *fakeReads) VariantByID(_ context.Context, id uuid.UUID) (*shared.VariantSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	v, ok := r.uow.state.variants[id]
	if !ok {
		return nil, infra.WrapRepoErr("variant not found", errNotFound, infra.KindNotFound)
	}
	return &shared.VariantSnapshot{
		ID:               id,
		ProductID:        v.ProductID,
		PriceCents:       v.PriceCents,
		StockQuantity:    v.Stock,
		ReservedQuantity: v.Reserved,
		ReorderLevel:     v.Reorder,
	}, nil
}

func (r *fakeReads) VariantsByID(ctx context.Context, ids []uuid.UUID) ([]*shared.VariantSnapshot, error) {
	snaps := make([]*shared.VariantSnapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := r.VariantByID(ctx, id)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (r *fakeReads) ShippingMethodByID(_ context.Context, id uuid.UUID) (*shared.ShippingMethodSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	m, ok := r.uow.state.shippingMethods[id]
	if !ok {
		return nil, infra.WrapRepoErr("shipping method not found", errNotFound, infra.KindNotFound)
	}
	cp := *m
	return &cp, nil
}

func (r *fakeReads) PromoByCode(_ context.Context, code string) (*shared.PromoSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	for _, p := range r.uow.state.promos {
		if strings.EqualFold(p.Code, code) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, infra.WrapRepoErr("promo code not found", errNotFound, infra.KindNotFound)
}

func (r *fakeReads) PromoByID(_ context.Context, id uuid.UUID) (*shared.PromoSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	p, ok := r.uow.state.promos[id]
	if !ok {
		return nil, infra.WrapRepoErr("promo code not found", errNotFound, infra.KindNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeReads) OrderByID(_ context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()
	o, ok := r.uow.state.orders[id]
	if !ok {
		return nil, infra.WrapRepoErr("order not found", errNotFound, infra.KindNotFound)
	}
	snap := o.Snapshot
	return &snap, nil
}
