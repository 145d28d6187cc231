package components

import (
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/config"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"
	"storefront/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewStockLedger,
		commands.NewPromoEngine,
		NewCheckoutCommands,
		commands.NewOrderCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewStockQueries,
		queries.NewOrderQueries,
	),
)

func NewCheckoutCommands(
	uow shared.UnitOfWork,
	ledger commands.StockLedger,
	promos commands.PromoEngine,
	m commands.Mailer,
	clk clock.Clock,
	cfg config.Config,
) commands.CheckoutCommands {
	return commands.NewCheckoutCommands(uow, ledger, promos, m, clk, cfg.Checkout.TaxRateBasisPoints)
}
