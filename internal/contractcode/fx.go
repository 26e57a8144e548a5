package contractcode

import (
	"github.com/teleretail/salespoint/internal/contractcode/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("contractcode",
	fx.Provide(repository.Provide),
)
