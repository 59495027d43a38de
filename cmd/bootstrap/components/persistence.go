package components

import (
	"context"

	"fitbook/internal/infra/db"
	"fitbook/internal/infra/notify"
	"fitbook/internal/infra/readstore"
	"fitbook/internal/infra/uow"
	"fitbook/internal/pkg/config"
	"fitbook/internal/usecase/commands"
	"fitbook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		NewEnqueuer,
		fx.Annotate(
			readstore.NewMemberReadStore,
			fx.As(new(queries.MemberReadStore)),
		),
		fx.Annotate(
			readstore.NewSlotReadStore,
			fx.As(new(queries.SlotReadStore)),
		),
		fx.Annotate(
			readstore.NewAgendaReadStore,
			fx.As(new(queries.AgendaReadStore)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewReconcileReadStore,
			fx.As(new(queries.ReconcileReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewEnqueuer(lc fx.Lifecycle, cfg config.Config) commands.EventNotifier {
	enq := notify.NewEnqueuer(cfg.Redis)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return enq.Close()
		},
	})
	return enq
}
