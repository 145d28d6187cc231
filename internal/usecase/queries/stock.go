package queries

import (
	"context"

	"github.com/google/uuid"
)

// StockQueries serves operational dashboards: current availability, reorder
// candidates and sold-out variants.
type StockQueries interface {
	GetVariant(ctx context.Context, variantID uuid.UUID) (*VariantStockView, error)
	LowStockItems(ctx context.Context) ([]*VariantStockView, error)
	OutOfStockItems(ctx context.Context) ([]*VariantStockView, error)
}

type StockViewRepo interface {
	FindByID(ctx context.Context, variantID uuid.UUID) (*VariantStockView, error)
	FindLowStock(ctx context.Context) ([]*VariantStockView, error)
	FindOutOfStock(ctx context.Context) ([]*VariantStockView, error)
}

type stockQueriesImpl struct {
	repo StockViewRepo
}

func NewStockQueries(repo StockViewRepo) StockQueries {
	return &stockQueriesImpl{repo: repo}
}

func (q *stockQueriesImpl) GetVariant(ctx context.Context, variantID uuid.UUID) (*VariantStockView, error) {
	return q.repo.FindByID(ctx, variantID)
}

func (q *stockQueriesImpl) LowStockItems(ctx context.Context) ([]*VariantStockView, error) {
	return q.repo.FindLowStock(ctx)
}

func (q *stockQueriesImpl) OutOfStockItems(ctx context.Context) ([]*VariantStockView, error) {
	return q.repo.FindOutOfStock(ctx)
}
