package writerepo

import (
	"context"
	"time"

	"storefront/internal/domain/order"
	"storefront/internal/infra"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertOrderSQL = `
		INSERT INTO orders (
			id, order_number, user_id, shipping_address_id, shipping_method_id,
			subtotal_cents, shipping_cents, tax_cents, discount_cents, total_cents,
			promo_id, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	insertOrderItemSQL = `
		INSERT INTO order_items (id, order_id, variant_id, product_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4, $5, $6)`

	selectOrderForUpdateSQL = `
		SELECT id, order_number, user_id, promo_id, status, created_at, updated_at
		FROM orders WHERE id = $1 FOR UPDATE`

	selectOrderItemsSQL = `
		SELECT variant_id, product_id, quantity, unit_price_cents
		FROM order_items WHERE order_id = $1 ORDER BY variant_id`

	updateOrderStatusSQL = `
		UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`
)

var _ shared.OrderRepository = (*OrderRepository)(nil)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	totals := o.Totals()
	_, err := r.db.Exec(ctx, insertOrderSQL,
		o.ID(), o.OrderNumber(), o.UserID(), o.ShippingAddressID(), o.ShippingMethodID(),
		totals.SubtotalCents, totals.ShippingCents, totals.TaxCents, totals.DiscountCents, totals.TotalCents,
		pgconv.UUIDPtrToPgtype(o.PromoID()), o.Status().String(), o.CreatedAt(), o.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert order", err)
	}

	for _, line := range o.Lines() {
		_, err := r.db.Exec(ctx, insertOrderItemSQL,
			uuid.New(), o.ID(), line.VariantID, line.ProductID, line.Quantity, line.UnitPriceCents,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert order item", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	snap := &shared.OrderSnapshot{}
	var promoID *uuid.UUID
	var status string
	err := r.db.QueryRow(ctx, selectOrderForUpdateSQL, id).Scan(
		&snap.ID, &snap.OrderNumber, &snap.UserID, &promoID, &status,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	snap.PromoID = promoID
	snap.Status = order.Status(status)

	rows, err := r.db.Query(ctx, selectOrderItemsSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Line, error) {
		var l order.Line
		err := row.Scan(&l.VariantID, &l.ProductID, &l.Quantity, &l.UnitPriceCents)
		return l, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order items", err)
	}
	snap.Lines = lines

	return snap, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx, updateOrderStatusSQL, id, status.String(), updatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}
