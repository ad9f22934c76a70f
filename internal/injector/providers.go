package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/parameters"
	"github.com/zeusync/vhtoolkit/internal/core/simulation"
)

// ParametersPath is the parameter file to load. Empty means the defaults.
type ParametersPath string

var RunnerSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideParameters,
	simulation.NewRunner,
)

func ProvideLogger(level log.Level) *log.Logger {
	return log.New(level)
}

func ProvideParameters(path ParametersPath) (*parameters.Parameters, error) {
	if path == "" {
		return parameters.Default(), nil
	}
	return parameters.LoadFile(string(path))
}
