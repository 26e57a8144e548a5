package subscription

import (
	"github.com/teleretail/salespoint/internal/subscription/repository"
	"github.com/teleretail/salespoint/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
