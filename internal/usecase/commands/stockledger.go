package commands

import (
	"context"

	"storefront/internal/domain/inventory"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrVariantNotFound = errs.New("variant not found")
)

// StockLedger is the single gateway to variant stock counters. Reserve and
// Release own their transactions; Commit and Return run inside a caller's
// transaction so they can share the order's boundary.
type StockLedger interface {
	// CheckAvailability returns nil when every line fits current available
	// stock, or an *inventory.InsufficientStockError for the first line that
	// does not. Side-effect free.
	CheckAvailability(ctx context.Context, items []inventory.Line) error
	// Reserve earmarks all lines or none of them. Concurrent reservations on
	// the same variant are serialized by the row-level conditional update.
	Reserve(ctx context.Context, items []inventory.Line) error
	// Release reverts a reservation after an aborted checkout.
	Release(ctx context.Context, items []inventory.Line) error
	// Commit converts reserved into sold within tx.
	Commit(ctx context.Context, tx shared.Tx, items []inventory.Line) error
	// Return restocks returned goods within tx.
	Return(ctx context.Context, tx shared.Tx, items []inventory.Line) error
}

type stockLedgerImpl struct {
	uow shared.UnitOfWork
}

func NewStockLedger(uow shared.UnitOfWork) StockLedger {
	return &stockLedgerImpl{uow: uow}
}

func (s *stockLedgerImpl) CheckAvailability(ctx context.Context, items []inventory.Line) error {
	if err := inventory.ValidateLines(items); err != nil {
		return err
	}

	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.VariantID
	}
	snaps, err := s.uow.Reads().VariantsByID(ctx, ids)
	if err != nil {
		return errs.Mark(err, ErrVariantNotFound)
	}
	byID := make(map[uuid.UUID]*shared.VariantSnapshot, len(snaps))
	for _, snap := range snaps {
		byID[snap.ID] = snap
	}

	for _, it := range items {
		snap, ok := byID[it.VariantID]
		if !ok {
			// The batch read skips ids with no row.
			return ErrVariantNotFound
		}
		variant := inventory.ReconstructVariant(snap.ID, snap.StockQuantity, snap.ReservedQuantity, snap.ReorderLevel)
		if variant.AvailableStock() < it.Quantity {
			return &inventory.InsufficientStockError{
				VariantID: it.VariantID,
				Available: variant.AvailableStock(),
				Requested: it.Quantity,
			}
		}
	}
	return nil
}

// Reserve applies the batch inside one transaction, locking variants in
// ascending id order. The first guard failure aborts the transaction, which
// rolls back every increment already applied in this call.
func (s *stockLedgerImpl) Reserve(ctx context.Context, items []inventory.Line) error {
	if err := inventory.ValidateLines(items); err != nil {
		return err
	}
	sorted := inventory.SortLines(items)

	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, it := range sorted {
			ok, err := tx.Stock().ReserveOne(ctx, it.VariantID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				available, availErr := tx.Stock().AvailableForUpdate(ctx, it.VariantID)
				if availErr != nil {
					return availErr
				}
				return &inventory.InsufficientStockError{
					VariantID: it.VariantID,
					Available: available,
					Requested: it.Quantity,
				}
			}
		}
		return nil
	})
}

func (s *stockLedgerImpl) Release(ctx context.Context, items []inventory.Line) error {
	if err := inventory.ValidateLines(items); err != nil {
		return err
	}
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Stock().Release(ctx, inventory.SortLines(items))
	})
}

func (s *stockLedgerImpl) Commit(ctx context.Context, tx shared.Tx, items []inventory.Line) error {
	if err := inventory.ValidateLines(items); err != nil {
		return err
	}
	return tx.Stock().Commit(ctx, inventory.SortLines(items))
}

func (s *stockLedgerImpl) Return(ctx context.Context, tx shared.Tx, items []inventory.Line) error {
	if err := inventory.ValidateLines(items); err != nil {
		return err
	}
	return tx.Stock().Return(ctx, inventory.SortLines(items))
}
