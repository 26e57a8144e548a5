package subsidy

import (
	"github.com/teleretail/salespoint/internal/subsidy/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("subsidy",
	fx.Provide(repository.Provide),
)
