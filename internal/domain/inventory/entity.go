package inventory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be greater than 0")
	ErrNegativeStock    = errors.New("stock quantities cannot be negative")
	ErrReservedOverflow = errors.New("reserved quantity cannot exceed stock quantity")
	ErrEmptyBatch       = errors.New("item batch is empty")
)

// InsufficientStockError carries the offending variant and how much of it was
// actually available when the reservation failed.
type InsufficientStockError struct {
	VariantID uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %s: requested %d, available %d",
		e.VariantID, e.Requested, e.Available)
}

// Line is one order line item as seen by the ledger.
type Line struct {
	VariantID uuid.UUID
	Quantity  int
}

// ValidateLines rejects empty batches and non-positive quantities.
func ValidateLines(items []Line) error {
	if len(items) == 0 {
		return ErrEmptyBatch
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// SortLines orders a batch by variant id ascending. Reservations always lock
// variants in this order so that two overlapping checkouts cannot deadlock.
func SortLines(items []Line) []Line {
	sorted := make([]Line, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].VariantID.String() < sorted[j].VariantID.String()
	})
	return sorted
}

// Variant tracks stock for one product-colour-size combination. Counters are
// mutated only through the methods below; the invariant
// 0 <= reserved <= stock holds after every operation.
type Variant struct {
	id               uuid.UUID
	stockQuantity    int
	reservedQuantity int
	reorderLevel     int
}

func NewVariant(id uuid.UUID, stockQuantity, reservedQuantity, reorderLevel int) (*Variant, error) {
	if stockQuantity < 0 || reservedQuantity < 0 || reorderLevel < 0 {
		return nil, ErrNegativeStock
	}
	if reservedQuantity > stockQuantity {
		return nil, ErrReservedOverflow
	}
	return &Variant{
		id:               id,
		stockQuantity:    stockQuantity,
		reservedQuantity: reservedQuantity,
		reorderLevel:     reorderLevel,
	}, nil
}

func ReconstructVariant(id uuid.UUID, stockQuantity, reservedQuantity, reorderLevel int) *Variant {
	return &Variant{
		id:               id,
		stockQuantity:    stockQuantity,
		reservedQuantity: reservedQuantity,
		reorderLevel:     reorderLevel,
	}
}

// AvailableStock is the quantity purchasable right now.
func (v *Variant) AvailableStock() int {
	return v.stockQuantity - v.reservedQuantity
}

// Reserve earmarks qty units for an in-flight order.
func (v *Variant) Reserve(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if v.AvailableStock() < qty {
		return &InsufficientStockError{
			VariantID: v.id,
			Available: v.AvailableStock(),
			Requested: qty,
		}
	}
	v.reservedQuantity += qty
	return nil
}

// Release reverts a reservation. Floored at zero so a double-release cannot
// drive the counter negative.
func (v *Variant) Release(qty int) {
	if qty <= 0 {
		return
	}
	v.reservedQuantity -= qty
	if v.reservedQuantity < 0 {
		v.reservedQuantity = 0
	}
}

// Commit converts a reservation into a sale, decrementing both counters.
// Returns the quantity actually committed; a shortfall is clamped rather than
// failing, since commit runs after the order is already durable.
func (v *Variant) Commit(qty int) int {
	if qty <= 0 {
		return 0
	}
	committed := qty
	if committed > v.reservedQuantity {
		committed = v.reservedQuantity
	}
	v.reservedQuantity -= committed
	v.stockQuantity -= committed
	if v.stockQuantity < 0 {
		v.stockQuantity = 0
	}
	return committed
}

// Return puts physically returned goods back on the shelf.
func (v *Variant) Return(qty int) {
	if qty <= 0 {
		return
	}
	v.stockQuantity += qty
}

func (v *Variant) NeedsReorder() bool {
	return v.AvailableStock() <= v.reorderLevel
}

func (v *Variant) OutOfStock() bool {
	return v.AvailableStock() <= 0
}

func (v *Variant) ID() uuid.UUID         { return v.id }
func (v *Variant) StockQuantity() int    { return v.stockQuantity }
func (v *Variant) ReservedQuantity() int { return v.reservedQuantity }
func (v *Variant) ReorderLevel() int     { return v.reorderLevel }
