package spotdeal

import (
	"github.com/teleretail/salespoint/internal/spotdeal/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("spotdeal",
	fx.Provide(repository.Provide),
)
