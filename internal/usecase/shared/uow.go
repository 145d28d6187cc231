package shared

import (
	"context"
	"time"

	"storefront/internal/domain/inventory"
	"storefront/internal/domain/order"

	"github.com/google/uuid"
)

// UnitOfWork owns transactional boundaries. Within runs fn inside a
// read-committed transaction with retry on serialization failures.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: snapshot reads for validation outside transactions
	Reads() CommandReads
}

// Tx exposes the write repositories bound to one transaction.
type Tx interface {
	Stock() StockRepository
	Promos() PromoRepository
	Orders() OrderRepository
	Carts() CartRepository
	Notifications() NotificationRepository
}

// StockRepository mutates variant counters. Every mutation is a conditional
// or clamped update so concurrent transactions can never break
// 0 <= reserved <= stock.
type StockRepository interface {
	// ReserveOne applies "reserved += qty where stock - reserved >= qty".
	// Returns false when the guard fails; the caller decides whether to
	// roll back the surrounding batch.
	ReserveOne(ctx context.Context, variantID uuid.UUID, qty int) (bool, error)
	// AvailableForUpdate reads available stock for error reporting after a
	// failed reserve, within the same transaction.
	AvailableForUpdate(ctx context.Context, variantID uuid.UUID) (int, error)
	Commit(ctx context.Context, items []inventory.Line) error
	Release(ctx context.Context, items []inventory.Line) error
	Return(ctx context.Context, items []inventory.Line) error
}

// PromoRepository mutates promo usage state.
type PromoRepository interface {
	// IncrementUsageIfUnderLimit applies "current_usage++ where usage_limit
	// is null or current_usage < usage_limit" and reports whether a slot was
	// won.
	IncrementUsageIfUnderLimit(ctx context.Context, promoID uuid.UUID) (bool, error)
	CountUserUsage(ctx context.Context, promoID, userID uuid.UUID) (int32, error)
	InsertUsage(ctx context.Context, promoID, userID, orderID uuid.UUID, usedAt time.Time) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	// FindByIDForUpdate locks the order row for a status transition.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*OrderSnapshot, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status, updatedAt time.Time) error
}

type CartRepository interface {
	Clear(ctx context.Context, cartID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}

// CommandReads are snapshot lookups used by commands before opening a write
// transaction. Write-side snapshots keep commands off the read-model types.
type CommandReads interface {
	CartByUser(ctx context.Context, userID uuid.UUID) (*CartSnapshot, error)
	VariantByID(ctx context.Context, id uuid.UUID) (*VariantSnapshot, error)
	VariantsByID(ctx context.Context, ids []uuid.UUID) ([]*VariantSnapshot, error)
	ShippingMethodByID(ctx context.Context, id uuid.UUID) (*ShippingMethodSnapshot, error)
	PromoByCode(ctx context.Context, code string) (*PromoSnapshot, error)
	PromoByID(ctx context.Context, id uuid.UUID) (*PromoSnapshot, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*OrderSnapshot, error)
}
