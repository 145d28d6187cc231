package writerepo

import (
	"context"
	"log/slog"

	"storefront/internal/domain/inventory"
	"storefront/internal/infra"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	// The guard makes concurrent reservations safe: two transactions racing
	// on the same row serialize on the row lock, and the loser re-evaluates
	// the predicate against the winner's counters.
	reserveStockSQL = `
		UPDATE variants
		SET reserved_quantity = reserved_quantity + $2, updated_at = now()
		WHERE id = $1 AND stock_quantity - reserved_quantity >= $2`

	availableForUpdateSQL = `
		SELECT stock_quantity - reserved_quantity
		FROM variants WHERE id = $1 FOR UPDATE`

	lockStockRowSQL = `
		SELECT reserved_quantity FROM variants WHERE id = $1 FOR UPDATE`

	commitStockSQL = `
		UPDATE variants
		SET stock_quantity = stock_quantity - $2,
		    reserved_quantity = reserved_quantity - $2,
		    updated_at = now()
		WHERE id = $1`

	releaseStockSQL = `
		UPDATE variants
		SET reserved_quantity = GREATEST(reserved_quantity - $2, 0), updated_at = now()
		WHERE id = $1`

	returnStockSQL = `
		UPDATE variants
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1`
)

var _ shared.StockRepository = (*StockRepository)(nil)

// StockRepository mutates variant counters with row-level conditional
// updates. Callers are responsible for batching inside one transaction.
type StockRepository struct {
	db DBTX
}

func NewStockRepository(db DBTX) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) ReserveOne(ctx context.Context, variantID uuid.UUID, qty int) (bool, error) {
	tag, err := r.db.Exec(ctx, reserveStockSQL, variantID, qty)
	if err != nil {
		return false, infra.WrapRepoErr("failed to reserve stock", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *StockRepository) AvailableForUpdate(ctx context.Context, variantID uuid.UUID) (int, error) {
	var available int
	if err := r.db.QueryRow(ctx, availableForUpdateSQL, variantID).Scan(&available); err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("variant not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to read available stock", err)
	}
	return available, nil
}

// Commit converts reserved units into sold ones. A shortfall (reserved less
// than requested) should be unreachable when Reserve preceded it; it is
// clamped and logged rather than failed, because the order is already
// durable by the time stock is committed.
func (r *StockRepository) Commit(ctx context.Context, items []inventory.Line) error {
	for _, it := range items {
		var reserved int
		if err := r.db.QueryRow(ctx, lockStockRowSQL, it.VariantID).Scan(&reserved); err != nil {
			if pgconv.IsNoRows(err) {
				return infra.WrapRepoErr("variant not found", err, infra.KindNotFound)
			}
			return infra.WrapRepoErr("failed to lock variant for commit", err)
		}

		committed := it.Quantity
		if committed > reserved {
			slog.Error("stock commit shortfall, clamping",
				"variant_id", it.VariantID, "requested", it.Quantity, "reserved", reserved)
			committed = reserved
		}
		if committed == 0 {
			continue
		}

		if _, err := r.db.Exec(ctx, commitStockSQL, it.VariantID, committed); err != nil {
			return infra.WrapRepoErr("failed to commit stock", err)
		}
	}
	return nil
}

func (r *StockRepository) Release(ctx context.Context, items []inventory.Line) error {
	for _, it := range items {
		if _, err := r.db.Exec(ctx, releaseStockSQL, it.VariantID, it.Quantity); err != nil {
			return infra.WrapRepoErr("failed to release stock", err)
		}
	}
	return nil
}

func (r *StockRepository) Return(ctx context.Context, items []inventory.Line) error {
	for _, it := range items {
		if _, err := r.db.Exec(ctx, returnStockSQL, it.VariantID, it.Quantity); err != nil {
			return infra.WrapRepoErr("failed to return stock", err)
		}
	}
	return nil
}
