package related

import (
	"github.com/teleretail/salespoint/internal/related/service"
	"go.uber.org/fx"
)

var Module = fx.Module("related",
	fx.Provide(service.NewService),
)
