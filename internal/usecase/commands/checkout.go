package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"storefront/internal/domain/inventory"
	"storefront/internal/domain/order"
	"storefront/internal/domain/promo"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart              = errs.New("cart is empty")
	ErrShippingMethodNotFound = errs.New("shipping method not found")
	ErrCheckoutFailed         = errs.New("checkout failed")
)

// Mailer delivers the confirmation email. Fire-and-forget: failures are
// logged and never surface as an order failure.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, orderID uuid.UUID, orderNumber, email string, totalCents int64) error
}

type PlaceOrderParams struct {
	UserID            uuid.UUID
	UserEmail         string
	ShippingMethodID  uuid.UUID
	ShippingAddressID uuid.UUID
	PromoCode         *string
}

type PlaceOrderResult struct {
	OrderID       uuid.UUID
	OrderNumber   string
	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	DiscountCents int64
	TotalCents    int64
	Status        order.Status
	PromoApplied  bool
	// PromoReason explains a rejected or unfinalized promo code; checkout
	// itself still succeeds.
	PromoReason string
}

type CheckoutCommands interface {
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*PlaceOrderResult, error)
}

type checkoutImpl struct {
	uow                shared.UnitOfWork
	ledger             StockLedger
	promos             PromoEngine
	mailer             Mailer
	clock              clock.Clock
	taxRateBasisPoints int64
}

func NewCheckoutCommands(
	uow shared.UnitOfWork,
	ledger StockLedger,
	promos PromoEngine,
	mailer Mailer,
	clock clock.Clock,
	taxRateBasisPoints int,
) CheckoutCommands {
	return &checkoutImpl{
		uow:                uow,
		ledger:             ledger,
		promos:             promos,
		mailer:             mailer,
		clock:              clock,
		taxRateBasisPoints: int64(taxRateBasisPoints),
	}
}

// PlaceOrder drives one checkout as a logical transaction. Any failure at or
// before reservation leaves no persistent trace. Once the order transaction
// commits, later failures (promo finalization, email) degrade gracefully and
// never roll the order back.
func (c *checkoutImpl) PlaceOrder(ctx context.Context, params PlaceOrderParams) (*PlaceOrderResult, error) {
	cart, err := c.uow.Reads().CartByUser(ctx, params.UserID)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrCheckoutFailed)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	subtotal := cartSubtotal(cart)

	// Promo failure is non-fatal: checkout proceeds without a discount and
	// the reason is surfaced to the caller.
	var promoEval *promo.EvalResult
	var promoReason string
	if params.PromoCode != nil {
		promoEval, err = c.promos.Evaluate(ctx, *params.PromoCode, params.UserID, promoLineItems(cart), subtotal)
		if err != nil {
			var invalid *PromoInvalidError
			if !errors.As(err, &invalid) {
				return nil, errs.Mark(err, ErrCheckoutFailed)
			}
			promoReason = invalid.Reason
			slog.Info("promo code rejected, continuing without discount",
				"code", *params.PromoCode, "reason", invalid.Reason)
		}
	}

	shipping, err := c.uow.Reads().ShippingMethodByID(ctx, params.ShippingMethodID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrShippingMethodNotFound
		}
		return nil, errs.Mark(err, ErrCheckoutFailed)
	}

	var discount int64
	var promoID *uuid.UUID
	if promoEval != nil {
		discount = promoEval.DiscountCents
		id := promoEval.PromoID
		promoID = &id
	}
	totals := order.ComputeTotals(subtotal, shipping.CostCents, c.taxCents(subtotal), discount)

	lines := orderLines(cart)
	ledgerItems := ledgerLines(cart)

	// Pre-check keeps the common shortage case cheap; Reserve below is the
	// authoritative guard against races.
	if err := c.ledger.CheckAvailability(ctx, ledgerItems); err != nil {
		return nil, err
	}
	if err := c.ledger.Reserve(ctx, ledgerItems); err != nil {
		return nil, err
	}

	newOrder, err := order.NewOrder(
		params.UserID, params.ShippingAddressID, params.ShippingMethodID,
		lines, totals, promoID, c.clock.Now(),
	)
	if err != nil {
		c.compensateReservation(ctx, ledgerItems)
		return nil, errs.Mark(err, ErrCheckoutFailed)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Orders().Create(ctx, newOrder); err != nil {
			return err
		}
		if err := c.ledger.Commit(ctx, tx, ledgerItems); err != nil {
			return err
		}
		if err := tx.Carts().Clear(ctx, cart.ID); err != nil {
			return err
		}
		return c.enqueueConfirmationJob(ctx, tx, newOrder)
	})
	if err != nil {
		// Nothing durable yet: revert the reservation and report failure.
		c.compensateReservation(ctx, ledgerItems)
		return nil, errs.Mark(err, ErrCheckoutFailed)
	}

	promoApplied := false
	if promoEval != nil {
		if err := c.promos.Finalize(ctx, promoEval.PromoID, params.UserID, newOrder.ID()); err != nil {
			// The order is already committed; keep it and record that the
			// promo did not ultimately apply.
			if errors.Is(err, ErrPromoUsageRaceLost) {
				promoReason = "usage limit reached"
			} else {
				promoReason = "promo not applied"
			}
			slog.Warn("promo finalization failed, order stands without promo",
				"order_id", newOrder.ID(), "promo_id", promoEval.PromoID, "error", err.Error())
		} else {
			promoApplied = true
		}
	}

	c.sendConfirmationAsync(newOrder, params.UserEmail)

	return &PlaceOrderResult{
		OrderID:       newOrder.ID(),
		OrderNumber:   newOrder.OrderNumber(),
		SubtotalCents: totals.SubtotalCents,
		ShippingCents: totals.ShippingCents,
		TaxCents:      totals.TaxCents,
		DiscountCents: totals.DiscountCents,
		TotalCents:    totals.TotalCents,
		Status:        newOrder.Status(),
		PromoApplied:  promoApplied,
		PromoReason:   promoReason,
	}, nil
}

func (c *checkoutImpl) taxCents(subtotal int64) int64 {
	return (subtotal*c.taxRateBasisPoints + 5000) / 10000
}

func (c *checkoutImpl) compensateReservation(ctx context.Context, items []inventory.Line) {
	if err := c.ledger.Release(ctx, items); err != nil {
		slog.Error("failed to release reservation after aborted checkout", "error", err.Error())
	}
}

func (c *checkoutImpl) enqueueConfirmationJob(ctx context.Context, tx shared.Tx, o *order.Order) error {
	payload, err := json.Marshal(map[string]any{
		"order_id":     o.ID(),
		"order_number": o.OrderNumber(),
		"total_cents":  o.Totals().TotalCents,
		"type":         "order_confirmation",
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, "email", "order_confirmation", payload, c.clock.Now())
}

func (c *checkoutImpl) sendConfirmationAsync(o *order.Order, email string) {
	go func() {
		ctx := context.Background()
		if err := c.mailer.SendOrderConfirmation(ctx, o.ID(), o.OrderNumber(), email, o.Totals().TotalCents); err != nil {
			slog.Warn("order confirmation email failed",
				"order_id", o.ID(), "error", err.Error())
		}
	}()
}

func cartSubtotal(cart *shared.CartSnapshot) int64 {
	var sum int64
	for _, l := range cart.Lines {
		sum += int64(l.Quantity) * l.UnitPriceCents
	}
	return sum
}

// promoLineItems groups cart lines by product for eligibility scoping.
func promoLineItems(cart *shared.CartSnapshot) []promo.LineItem {
	byProduct := make(map[uuid.UUID]*promo.LineItem, len(cart.Lines))
	productOrder := make([]uuid.UUID, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		item, ok := byProduct[l.ProductID]
		if !ok {
			byProduct[l.ProductID] = &promo.LineItem{
				ProductID:     l.ProductID,
				Quantity:      l.Quantity,
				SubtotalCents: int64(l.Quantity) * l.UnitPriceCents,
			}
			productOrder = append(productOrder, l.ProductID)
			continue
		}
		item.Quantity += l.Quantity
		item.SubtotalCents += int64(l.Quantity) * l.UnitPriceCents
	}

	items := make([]promo.LineItem, 0, len(productOrder))
	for _, pid := range productOrder {
		items = append(items, *byProduct[pid])
	}
	return items
}

func orderLines(cart *shared.CartSnapshot) []order.Line {
	lines := make([]order.Line, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = order.Line{
			VariantID:      l.VariantID,
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		}
	}
	return lines
}

func ledgerLines(cart *shared.CartSnapshot) []inventory.Line {
	items := make([]inventory.Line, len(cart.Lines))
	for i, l := range cart.Lines {
		items[i] = inventory.Line{VariantID: l.VariantID, Quantity: l.Quantity}
	}
	return items
}
