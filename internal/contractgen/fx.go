package contractgen

import (
	"github.com/teleretail/salespoint/internal/contractgen/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contractgen",
	fx.Provide(service.NewService),
)
