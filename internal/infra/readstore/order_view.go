package readstore

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	selectOrderViewSQL = `
		SELECT o.id, o.order_number, o.user_id, o.status,
		       o.subtotal_cents, o.shipping_cents, o.tax_cents, o.discount_cents, o.total_cents,
		       pc.code, o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN promo_codes pc ON pc.id = o.promo_id
		WHERE o.id = $1`

	selectOrderLineViewsSQL = `
		SELECT oi.variant_id, oi.product_id, p.name, oi.quantity, oi.unit_price_cents
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.variant_id`

	selectOrdersByUserSQL = `
		SELECT id, order_number, status, total_cents, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
)

var _ queries.OrderViewRepo = (*OrderViewStore)(nil)

type OrderViewStore struct {
	pool *pgxpool.Pool
}

func NewOrderViewStore(pool *pgxpool.Pool) *OrderViewStore {
	return &OrderViewStore{pool: pool}
}

func (s *OrderViewStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	view := &queries.OrderView{}
	var promoCode pgtype.Text
	err := s.pool.QueryRow(ctx, selectOrderViewSQL, id).Scan(
		&view.ID, &view.OrderNumber, &view.UserID, &view.Status,
		&view.SubtotalCents, &view.ShippingCents, &view.TaxCents, &view.DiscountCents, &view.TotalCents,
		&promoCode, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	view.PromoCode = pgconv.StringPtrFromPgtype(promoCode)

	rows, err := s.pool.Query(ctx, selectOrderLineViewsSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order lines", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (queries.OrderLineView, error) {
		var l queries.OrderLineView
		err := row.Scan(&l.VariantID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPriceCents)
		return l, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order lines", err)
	}
	view.Lines = lines

	return view, nil
}

func (s *OrderViewStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	rows, err := s.pool.Query(ctx, selectOrdersByUserSQL, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.OrderListItem, error) {
		item := &queries.OrderListItem{}
		err := row.Scan(&item.ID, &item.OrderNumber, &item.Status, &item.TotalCents, &item.CreatedAt)
		return item, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan orders", err)
	}
	return items, nil
}
