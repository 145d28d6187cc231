package commands

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/promo"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	// ErrPromoUsageRaceLost means another order consumed the last usage slot
	// between evaluation and finalization. The order stands; only the promo
	// does not apply.
	ErrPromoUsageRaceLost = errs.New("promo usage limit reached during finalization")
	ErrPromoNotFound      = errs.New("promo code not found")
)

// PromoInvalidError is the fail-closed evaluation outcome. Checkout treats it
// as non-fatal and proceeds without a discount.
type PromoInvalidError struct {
	Code   string
	Reason string
}

func (e *PromoInvalidError) Error() string {
	return fmt.Sprintf("promo code %q invalid: %s", e.Code, e.Reason)
}

// PromoEngine validates codes and records usage. Evaluate never mutates
// state; Finalize is the atomic usage-recording half invoked only after the
// order is durable.
type PromoEngine interface {
	Evaluate(ctx context.Context, code string, userID uuid.UUID, items []promo.LineItem, subtotalCents int64) (*promo.EvalResult, error)
	Finalize(ctx context.Context, promoID, userID, orderID uuid.UUID) error
}

type promoEngineImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPromoEngine(uow shared.UnitOfWork, clock clock.Clock) PromoEngine {
	return &promoEngineImpl{uow: uow, clock: clock}
}

func (p *promoEngineImpl) Evaluate(
	ctx context.Context,
	code string,
	userID uuid.UUID,
	items []promo.LineItem,
	subtotalCents int64,
) (*promo.EvalResult, error) {
	snap, err := p.uow.Reads().PromoByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, &PromoInvalidError{Code: code, Reason: "not found"}
		}
		return nil, errs.Mark(err, ErrPromoNotFound)
	}

	entity, err := promoFromSnapshot(snap)
	if err != nil {
		return nil, &PromoInvalidError{Code: code, Reason: "not found"}
	}

	result, err := entity.Evaluate(p.clock.Now(), items, subtotalCents)
	if err != nil {
		return nil, &PromoInvalidError{Code: code, Reason: evaluationReason(err)}
	}
	return result, nil
}

// Finalize wins or loses the global usage slot with a single conditional
// update. The per-user cap is enforced by counting existing usage rows for
// (promo, user) inside the same transaction, before the increment.
func (p *promoEngineImpl) Finalize(ctx context.Context, promoID, userID, orderID uuid.UUID) error {
	snap, err := p.uow.Reads().PromoByID(ctx, promoID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrPromoNotFound
		}
		return errs.Mark(err, ErrPromoNotFound)
	}

	entity, err := promoFromSnapshot(snap)
	if err != nil {
		return errs.Mark(err, ErrPromoNotFound)
	}

	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		userUsage, err := tx.Promos().CountUserUsage(ctx, promoID, userID)
		if err != nil {
			return err
		}
		if !entity.UnderUserLimit(userUsage) {
			return ErrPromoUsageRaceLost
		}

		won, err := tx.Promos().IncrementUsageIfUnderLimit(ctx, promoID)
		if err != nil {
			return err
		}
		if !won {
			return ErrPromoUsageRaceLost
		}

		return tx.Promos().InsertUsage(ctx, promoID, userID, orderID, p.clock.Now())
	})
}

func promoFromSnapshot(snap *shared.PromoSnapshot) (*promo.PromoCode, error) {
	return promo.NewPromoCode(
		snap.ID,
		snap.Code,
		promo.DiscountType(snap.DiscountType),
		snap.DiscountValue,
		snap.StartDate,
		snap.EndDate,
		snap.UsageLimit,
		snap.PerUserLimit,
		snap.CurrentUsage,
		snap.MinPurchaseCents,
		snap.IsActive,
		snap.EligibleProductIDs,
	)
}

func evaluationReason(err error) string {
	switch {
	case errors.Is(err, promo.ErrInactive):
		return "inactive"
	case errors.Is(err, promo.ErrNotYetStarted):
		return "not yet started"
	case errors.Is(err, promo.ErrExpired):
		return "expired"
	case errors.Is(err, promo.ErrUsageLimitReached):
		return "usage limit reached"
	case errors.Is(err, promo.ErrBelowMinPurchase):
		return "below minimum purchase amount"
	case errors.Is(err, promo.ErrNoEligibleItems):
		return "no eligible items in cart"
	default:
		return "not found"
	}
}
