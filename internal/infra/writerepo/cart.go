package writerepo

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

const clearCartSQL = `DELETE FROM cart_items WHERE cart_id = $1`

var _ shared.CartRepository = (*CartRepository)(nil)

type CartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, clearCartSQL, cartID); err != nil {
		return infra.WrapRepoErr("failed to clear cart", err)
	}
	return nil
}
