package readstore

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	stockViewColumns = `
		v.id, v.product_id, p.name, v.colour, v.size,
		v.stock_quantity, v.reserved_quantity,
		v.stock_quantity - v.reserved_quantity AS available_stock,
		v.reorder_level`

	selectStockViewSQL = `
		SELECT ` + stockViewColumns + `
		FROM variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.id = $1`

	selectLowStockSQL = `
		SELECT ` + stockViewColumns + `
		FROM variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.stock_quantity - v.reserved_quantity <= v.reorder_level
		ORDER BY available_stock ASC, p.name`

	selectOutOfStockSQL = `
		SELECT ` + stockViewColumns + `
		FROM variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.stock_quantity - v.reserved_quantity <= 0
		ORDER BY p.name`
)

var _ queries.StockViewRepo = (*StockViewStore)(nil)

type StockViewStore struct {
	pool *pgxpool.Pool
}

func NewStockViewStore(pool *pgxpool.Pool) *StockViewStore {
	return &StockViewStore{pool: pool}
}

func (s *StockViewStore) FindByID(ctx context.Context, variantID uuid.UUID) (*queries.VariantStockView, error) {
	view := &queries.VariantStockView{}
	err := s.pool.QueryRow(ctx, selectStockViewSQL, variantID).Scan(
		&view.VariantID, &view.ProductID, &view.ProductName, &view.Colour, &view.Size,
		&view.StockQuantity, &view.ReservedQuantity, &view.AvailableStock, &view.ReorderLevel,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("variant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find variant stock", err)
	}
	return view, nil
}

func (s *StockViewStore) FindLowStock(ctx context.Context) ([]*queries.VariantStockView, error) {
	return s.listStockViews(ctx, selectLowStockSQL)
}

func (s *StockViewStore) FindOutOfStock(ctx context.Context) ([]*queries.VariantStockView, error) {
	return s.listStockViews(ctx, selectOutOfStockSQL)
}

func (s *StockViewStore) listStockViews(ctx context.Context, sql string) ([]*queries.VariantStockView, error) {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list variant stock", err)
	}
	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.VariantStockView, error) {
		view := &queries.VariantStockView{}
		err := row.Scan(
			&view.VariantID, &view.ProductID, &view.ProductName, &view.Colour, &view.Size,
			&view.StockQuantity, &view.ReservedQuantity, &view.AvailableStock, &view.ReorderLevel,
		)
		return view, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan variant stock", err)
	}
	return views, nil
}
