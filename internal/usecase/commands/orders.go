package commands

import (
	"context"
	"log/slog"

	"storefront/internal/domain/order"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errs.New("order not found")
	ErrInvalidTransition = errs.New("invalid order status transition")
)

// OrderCommands drives post-checkout lifecycle transitions. Each transition
// applies its ledger effect in the same transaction as the status write.
type OrderCommands interface {
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next order.Status) error
	Cancel(ctx context.Context, orderID uuid.UUID) error
	Return(ctx context.Context, orderID uuid.UUID) error
}

type orderCommandsImpl struct {
	uow    shared.UnitOfWork
	ledger StockLedger
	clock  clock.Clock
}

func NewOrderCommands(uow shared.UnitOfWork, ledger StockLedger, clock clock.Clock) OrderCommands {
	return &orderCommandsImpl{uow: uow, ledger: ledger, clock: clock}
}

func (c *orderCommandsImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, next order.Status) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		entity := order.ReconstructOrder(
			snap.ID, snap.OrderNumber, snap.UserID,
			uuid.Nil, uuid.Nil, // address/method not needed for transitions
			snap.Lines, order.Totals{}, snap.PromoID,
			snap.Status, snap.CreatedAt, snap.UpdatedAt,
		)

		now := c.clock.Now()
		effect, err := entity.TransitionTo(next, now)
		if err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		// Stock was committed when the order was created, so both
		// cancellation and return restock via Return. See DESIGN.md for the
		// cancellation-after-commit decision.
		if effect == order.EffectReturn {
			if err := c.ledger.Return(ctx, tx, entity.LedgerLines()); err != nil {
				return err
			}
			slog.Info("order stock restored",
				"order_id", orderID, "from", snap.Status, "to", next)
		}

		return tx.Orders().UpdateStatus(ctx, orderID, next, now)
	})
}

func (c *orderCommandsImpl) Cancel(ctx context.Context, orderID uuid.UUID) error {
	return c.UpdateStatus(ctx, orderID, order.StatusCancelled)
}

func (c *orderCommandsImpl) Return(ctx context.Context, orderID uuid.UUID) error {
	return c.UpdateStatus(ctx, orderID, order.StatusReturned)
}
