package components

import (
	"storefront/internal/infra/mailer"
	"storefront/internal/infra/readstore"
	"storefront/internal/infra/uow"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// UnitOfWork owns the write repositories; they are reachable only
		// through its transactions.
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewStockViewStore,
			fx.As(new(queries.StockViewRepo)),
		),
		fx.Annotate(
			readstore.NewOrderViewStore,
			fx.As(new(queries.OrderViewRepo)),
		),
		fx.Annotate(
			mailer.NewLogMailer,
			fx.As(new(commands.Mailer)),
		),
	),
)
