package mobiledeal

import (
	"github.com/teleretail/salespoint/internal/mobiledeal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("mobiledeal",
	fx.Provide(service.NewService),
)
