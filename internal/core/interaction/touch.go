package interaction

import (
	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/touch"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

// Touch drives the limbs of a scene with a touch remapping technique.
type Touch struct {
	base
	techniques selector[touch.ID, touch.Technique]
	warned     bool
}

var _ Driver = (*Touch)(nil)

func NewTouch(s *scene.Scene, logger log.Log, technique touch.ID) *Touch {
	t := &Touch{base: newBase(s, logger)}
	t.techniques.build = touch.New
	t.SetTechnique(technique)
	return t
}

func (t *Touch) SetTechnique(id touch.ID) {
	prev := t.techniques.active
	t.techniques.set(id, t.log)
	if t.techniques.active != prev {
		t.warned = false
	}
}

func (t *Touch) Technique() touch.ID { return t.techniques.selected }

func (t *Touch) Active() touch.Technique { return t.techniques.active }

// Recompute refits the active technique on the current scene pairs, if it
// caches a fit.
func (t *Touch) Recompute() error {
	r, ok := t.techniques.active.(interface {
		Recompute(s *scene.Scene) error
	})
	if !ok {
		return nil
	}
	if err := r.Recompute(t.scene); err != nil {
		t.report("touch refit failed", t.Technique().String(), err)
		return err
	}
	t.warned = false
	return nil
}

// Redirect warns once when the scene pairs drift from the fit in use. The fit
// is only replaced by Recompute.
func (t *Touch) Redirect() error {
	err := t.run(t.Technique().String(), t.techniques.active, t.techniques.ok, touch.NoRedirection{})
	if st, ok := t.techniques.active.(touch.Staler); ok && t.redirecting && !t.warned && st.Stale(t.scene) {
		t.log.Warn("touch pairs changed since the last fit", log.Technique(t.Technique().String()))
		t.warned = true
	}
	return err
}

func (t *Touch) Frame() error { return t.frame(t.Redirect) }
