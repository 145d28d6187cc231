package writerepo

import (
	"context"
	"time"

	"storefront/internal/infra"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	// The predicate is the usage cap's single point of truth: of N
	// concurrent finalizations against the last slot, exactly one update
	// matches a row.
	incrementUsageSQL = `
		UPDATE promo_codes
		SET current_usage = current_usage + 1, updated_at = now()
		WHERE id = $1 AND (usage_limit IS NULL OR current_usage < usage_limit)`

	countUserUsageSQL = `
		SELECT COUNT(*) FROM promo_usages WHERE promo_id = $1 AND user_id = $2`

	insertUsageSQL = `
		INSERT INTO promo_usages (id, promo_id, user_id, order_id, used_at)
		VALUES ($1, $2, $3, $4, $5)`
)

var _ shared.PromoRepository = (*PromoRepository)(nil)

type PromoRepository struct {
	db DBTX
}

func NewPromoRepository(db DBTX) *PromoRepository {
	return &PromoRepository{db: db}
}

func (r *PromoRepository) IncrementUsageIfUnderLimit(ctx context.Context, promoID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, incrementUsageSQL, promoID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to increment promo usage", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PromoRepository) CountUserUsage(ctx context.Context, promoID, userID uuid.UUID) (int32, error) {
	var count int32
	if err := r.db.QueryRow(ctx, countUserUsageSQL, promoID, userID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count promo usage", err)
	}
	return count, nil
}

func (r *PromoRepository) InsertUsage(ctx context.Context, promoID, userID, orderID uuid.UUID, usedAt time.Time) error {
	if _, err := r.db.Exec(ctx, insertUsageSQL, uuid.New(), promoID, userID, orderID, usedAt); err != nil {
		return infra.WrapRepoErr("failed to append promo usage record", err)
	}
	return nil
}
