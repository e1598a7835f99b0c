package spec

import (
	"github.com/smallbiznis/policyhub/internal/spec/repository"
	"github.com/smallbiznis/policyhub/internal/spec/service"
	"go.uber.org/fx"
)

var Module = fx.Module("spec.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
