package interaction

import (
	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/world"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
	"github.com/zeusync/vhtoolkit/internal/core/steering"
)

// World drives the virtual head with a world redirection technique, steering
// with the selected strategy first.
type World struct {
	base
	techniques selector[world.ID, world.Technique]

	strategyID    steering.ID
	strategy      steering.Strategy
	strategyOK    bool
	strategyBuilt bool
}

var _ Driver = (*World)(nil)

func NewWorld(s *scene.Scene, logger log.Log, technique world.ID, strategy steering.ID) *World {
	w := &World{base: newBase(s, logger)}
	w.techniques.build = world.New
	w.SetTechnique(technique)
	w.SetStrategy(strategy)
	return w
}

func (w *World) SetTechnique(id world.ID) { w.techniques.set(id, w.log) }

func (w *World) Technique() world.ID { return w.techniques.selected }

func (w *World) Active() world.Technique { return w.techniques.active }

// SetStrategy selects the steering strategy. An unknown one disables
// redirection, the head passing through until a valid strategy is selected.
func (w *World) SetStrategy(id steering.ID) {
	if w.strategyBuilt && id == w.strategyID {
		return
	}
	w.strategyID, w.strategyBuilt = id, true
	st, err := steering.New(id)
	if err != nil {
		w.log.Error("strategy unavailable, redirection disabled", log.Technique(id.String()), log.Error(err))
		w.strategy, w.strategyOK = nil, false
		return
	}
	w.strategy, w.strategyOK = st, true
}

func (w *World) Strategy() steering.ID { return w.strategyID }

func (w *World) Redirect() error {
	if w.redirecting && w.strategyOK {
		direction, err := w.strategy.SteerTo(w.scene)
		if err != nil {
			w.report("steering fell back to head forward", w.strategyID.String(), err)
		}
		w.scene.ForwardTarget = direction
	}
	ok := w.techniques.ok && w.strategyOK
	return w.run(w.Technique().String(), w.techniques.active, ok, world.NoRedirection{})
}

func (w *World) Frame() error { return w.frame(w.Redirect) }
