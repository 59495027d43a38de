package components

import (
	"fitbook/internal/handler"
	"fitbook/internal/handler/api"
	"fitbook/internal/handler/middleware"
	"fitbook/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(cfg config.Config) config.CookieConfig { return cfg.Cookie },
		func(cfg config.Config) config.JWTConfig { return cfg.JWT },
		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewSlotHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
