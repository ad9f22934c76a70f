// Package interaction drives redirection frame by frame. A driver owns a scene,
// the technique selected by the host and the instance built for it, and falls
// back to plain pass-through whenever redirection is stopped, the selection
// cannot be built or the technique fails for the frame.
package interaction

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/parameters"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
	"github.com/zeusync/vhtoolkit/internal/core/steering"
)

// Driver is the surface shared by the Body, World and Touch drivers.
type Driver interface {
	ID() uuid.UUID
	Scene() *scene.Scene
	StartRedirection()
	StopRedirection()
	Redirecting() bool
	SetParameters(p *parameters.Parameters) error
	// Redirect computes one frame without ending it.
	Redirect() error
	// Frame runs Redirect then ends the scene frame.
	Frame() error
}

type redirector interface {
	Redirect(s *scene.Scene) error
}

// selector keeps the instance built for the selected id. The instance is only
// rebuilt when the id changes; an id that cannot be built leaves it empty.
type selector[K interface {
	comparable
	fmt.Stringer
}, T redirector] struct {
	build    func(K) (T, error)
	selected K
	active   T
	ok       bool
	built    bool
}

func (s *selector[K, T]) set(id K, logger log.Log) {
	if s.built && id == s.selected {
		return
	}
	var zero T
	s.selected, s.built = id, true
	t, err := s.build(id)
	if err != nil {
		logger.Error("technique unavailable, redirection disabled", log.Technique(id.String()), log.Error(err))
		s.active, s.ok = zero, false
		return
	}
	s.active, s.ok = t, true
}

// base holds what every driver shares. Building it seeds the previous-frame
// caches of a scene that was not started, so motion before the first frame
// counts as motion.
type base struct {
	id          uuid.UUID
	scene       *scene.Scene
	log         log.Log
	redirecting bool
}

func newBase(s *scene.Scene, logger log.Log) base {
	id := uuid.New()
	if logger == nil {
		logger = log.Nop()
	}
	if !s.Started() {
		s.Start()
	}
	return base{id: id, scene: s, log: logger.With(log.Interaction(id.String()))}
}

func (b *base) ID() uuid.UUID { return b.id }

func (b *base) Scene() *scene.Scene { return b.scene }

// StartRedirection enables the selected technique from the next frame on.
func (b *base) StartRedirection() { b.redirecting = true }

// StopRedirection switches back to pass-through, keeping current offsets.
func (b *base) StopRedirection() { b.redirecting = false }

func (b *base) Redirecting() bool { return b.redirecting }

// SetParameters validates p and swaps it in for the next frame. An invalid
// set is rejected and the current one kept.
func (b *base) SetParameters(p *parameters.Parameters) error {
	if p == nil {
		return fmt.Errorf("%w: nil parameters", parameters.ErrInvalidParameter)
	}
	if err := p.Validate(); err != nil {
		b.log.Error("parameters rejected", log.Error(err))
		return err
	}
	b.scene.Params = p.Clone()
	return nil
}

func (b *base) frame(redirect func() error) error {
	err := redirect()
	b.scene.EndFrame()
	return err
}

// run applies active when redirecting, fallback otherwise or when active fails.
func (b *base) run(name string, active redirector, ok bool, fallback redirector) error {
	if !b.redirecting || !ok {
		return fallback.Redirect(b.scene)
	}
	err := active.Redirect(b.scene)
	if err == nil {
		return nil
	}
	b.report("redirection failed, passing through", name, err)
	if ferr := fallback.Redirect(b.scene); ferr != nil {
		return errors.Join(err, ferr)
	}
	return err
}

// report logs numerical fallbacks at debug level and everything else as errors.
func (b *base) report(msg, name string, err error) {
	fields := []log.Field{log.Technique(name), log.Frame(b.scene.Frame()), log.Error(err)}
	if errors.Is(err, scene.ErrNonFinite) || errors.Is(err, steering.ErrUndefinedDirection) {
		b.log.Debug(msg, fields...)
		return
	}
	b.log.Error(msg, fields...)
}
