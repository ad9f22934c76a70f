package interaction

import (
	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/body"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

// Body drives the limbs of a scene with a body redirection technique.
type Body struct {
	base
	techniques selector[body.ID, body.Technique]
}

var _ Driver = (*Body)(nil)

func NewBody(s *scene.Scene, logger log.Log, technique body.ID) *Body {
	b := &Body{base: newBase(s, logger)}
	b.techniques.build = body.New
	b.SetTechnique(technique)
	return b
}

// SetTechnique selects the technique for the next frames. Selecting the
// current technique again keeps its instance and any state it caches.
func (b *Body) SetTechnique(id body.ID) { b.techniques.set(id, b.log) }

func (b *Body) Technique() body.ID { return b.techniques.selected }

// Active returns the instance in use, nil when the selection is disabled.
func (b *Body) Active() body.Technique { return b.techniques.active }

func (b *Body) Redirect() error {
	return b.run(b.Technique().String(), b.techniques.active, b.techniques.ok, body.NoRedirection{})
}

func (b *Body) Frame() error { return b.frame(b.Redirect) }
