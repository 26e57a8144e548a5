package operator

import (
	"github.com/teleretail/salespoint/internal/operator/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("operator",
	fx.Provide(repository.Provide),
)
