package readstore

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	domainorder "storefront/internal/domain/order"
)

const (
	selectCartByUserSQL = `
		SELECT c.id, c.user_id
		FROM carts c WHERE c.user_id = $1`

	selectCartLinesSQL = `
		SELECT ci.variant_id, v.product_id, ci.quantity, v.price_cents
		FROM cart_items ci
		JOIN variants v ON v.id = ci.variant_id
		WHERE ci.cart_id = $1
		ORDER BY ci.variant_id`

	selectVariantSQL = `
		SELECT id, product_id, price_cents, stock_quantity, reserved_quantity, reorder_level
		FROM variants WHERE id = $1`

	selectVariantsSQL = `
		SELECT id, product_id, price_cents, stock_quantity, reserved_quantity, reorder_level
		FROM variants WHERE id = ANY($1)`

	selectShippingMethodSQL = `
		SELECT id, name, cost_cents FROM shipping_methods WHERE id = $1`

	selectPromoByCodeSQL = `
		SELECT id, code, discount_type, discount_value, start_date, end_date,
		       usage_limit, per_user_limit, current_usage, min_purchase_cents, is_active
		FROM promo_codes WHERE code = upper($1)`

	selectPromoByIDSQL = `
		SELECT id, code, discount_type, discount_value, start_date, end_date,
		       usage_limit, per_user_limit, current_usage, min_purchase_cents, is_active
		FROM promo_codes WHERE id = $1`

	selectPromoProductsSQL = `
		SELECT product_id FROM promo_products WHERE promo_id = $1 ORDER BY product_id`

	selectOrderSQL = `
		SELECT id, order_number, user_id, promo_id, status, created_at, updated_at
		FROM orders WHERE id = $1`

	selectOrderLinesSQL = `
		SELECT variant_id, product_id, quantity, unit_price_cents
		FROM order_items WHERE order_id = $1 ORDER BY variant_id`
)

var _ shared.CommandReads = (*CommandReads)(nil)

// CommandReads serves write-side snapshots from the pool, outside any open
// transaction. Staleness is acceptable here: commands re-validate state with
// conditional updates inside the transaction.
type CommandReads struct {
	pool *pgxpool.Pool
}

func NewCommandReads(pool *pgxpool.Pool) *CommandReads {
	return &CommandReads{pool: pool}
}

func (r *CommandReads) CartByUser(ctx context.Context, userID uuid.UUID) (*shared.CartSnapshot, error) {
	snap := &shared.CartSnapshot{}
	err := r.pool.QueryRow(ctx, selectCartByUserSQL, userID).Scan(&snap.ID, &snap.UserID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("cart not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find cart", err)
	}

	rows, err := r.pool.Query(ctx, selectCartLinesSQL, snap.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart items", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.CartLine, error) {
		var l shared.CartLine
		err := row.Scan(&l.VariantID, &l.ProductID, &l.Quantity, &l.UnitPriceCents)
		return l, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan cart items", err)
	}
	snap.Lines = lines

	return snap, nil
}

func (r *CommandReads) VariantByID(ctx context.Context, id uuid.UUID) (*shared.VariantSnapshot, error) {
	snap := &shared.VariantSnapshot{}
	err := r.pool.QueryRow(ctx, selectVariantSQL, id).Scan(
		&snap.ID, &snap.ProductID, &snap.PriceCents,
		&snap.StockQuantity, &snap.ReservedQuantity, &snap.ReorderLevel,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("variant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find variant", err)
	}
	return snap, nil
}

func (r *CommandReads) VariantsByID(ctx context.Context, ids []uuid.UUID) ([]*shared.VariantSnapshot, error) {
	rows, err := r.pool.Query(ctx, selectVariantsSQL, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find variants", err)
	}
	snaps, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*shared.VariantSnapshot, error) {
		snap := &shared.VariantSnapshot{}
		err := row.Scan(
			&snap.ID, &snap.ProductID, &snap.PriceCents,
			&snap.StockQuantity, &snap.ReservedQuantity, &snap.ReorderLevel,
		)
		return snap, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan variants", err)
	}
	return snaps, nil
}

func (r *CommandReads) ShippingMethodByID(ctx context.Context, id uuid.UUID) (*shared.ShippingMethodSnapshot, error) {
	snap := &shared.ShippingMethodSnapshot{}
	err := r.pool.QueryRow(ctx, selectShippingMethodSQL, id).Scan(&snap.ID, &snap.Name, &snap.CostCents)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("shipping method not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find shipping method", err)
	}
	return snap, nil
}

func (r *CommandReads) PromoByCode(ctx context.Context, code string) (*shared.PromoSnapshot, error) {
	return r.promoByQuery(ctx, selectPromoByCodeSQL, code)
}

func (r *CommandReads) PromoByID(ctx context.Context, id uuid.UUID) (*shared.PromoSnapshot, error) {
	return r.promoByQuery(ctx, selectPromoByIDSQL, id)
}

func (r *CommandReads) promoByQuery(ctx context.Context, sql string, arg any) (*shared.PromoSnapshot, error) {
	snap := &shared.PromoSnapshot{}
	var startDate, endDate pgtype.Timestamptz
	var usageLimit, perUserLimit pgtype.Int4
	var minPurchase pgtype.Int8
	err := r.pool.QueryRow(ctx, sql, arg).Scan(
		&snap.ID, &snap.Code, &snap.DiscountType, &snap.DiscountValue,
		&startDate, &endDate, &usageLimit, &perUserLimit,
		&snap.CurrentUsage, &minPurchase, &snap.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("promo code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find promo code", err)
	}
	snap.StartDate = pgconv.TimePtrFromPgtype(startDate)
	snap.EndDate = pgconv.TimePtrFromPgtype(endDate)
	snap.UsageLimit = pgconv.Int32PtrFromPgtype(usageLimit)
	snap.PerUserLimit = pgconv.Int32PtrFromPgtype(perUserLimit)
	if minPurchase.Valid {
		snap.MinPurchaseCents = &minPurchase.Int64
	}

	rows, err := r.pool.Query(ctx, selectPromoProductsSQL, snap.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load promo products", err)
	}
	productIDs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (uuid.UUID, error) {
		var id uuid.UUID
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan promo products", err)
	}
	snap.EligibleProductIDs = productIDs

	return snap, nil
}

func (r *CommandReads) OrderByID(ctx context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	snap := &shared.OrderSnapshot{}
	var promoID pgtype.UUID
	var status string
	err := r.pool.QueryRow(ctx, selectOrderSQL, id).Scan(
		&snap.ID, &snap.OrderNumber, &snap.UserID, &promoID, &status,
		&snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}
	snap.PromoID = pgconv.UUIDPtrFromPgtype(promoID)
	snap.Status = domainorder.Status(status)

	rows, err := r.pool.Query(ctx, selectOrderLinesSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domainorder.Line, error) {
		var l domainorder.Line
		err := row.Scan(&l.VariantID, &l.ProductID, &l.Quantity, &l.UnitPriceCents)
		return l, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order items", err)
	}
	snap.Lines = lines

	return snap, nil
}
