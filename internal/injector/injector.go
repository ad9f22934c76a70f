//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/simulation"
)

func InitializeRunner(level log.Level, path ParametersPath) (*simulation.Runner, error) {
	wire.Build(RunnerSet)
	return nil, nil
}
