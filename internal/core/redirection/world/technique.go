// Package world implements redirected-walking techniques: each frame they
// rotate or translate the virtual head relative to the physical head so the
// user is steered toward ForwardTarget.
package world

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

var ErrUnknownTechnique = errors.New("unknown world redirection technique")

// Technique applies one frame of world redirection. It either commits a
// complete update of the virtual head or returns an error and leaves the scene
// untouched.
type Technique interface {
	Redirect(s *scene.Scene) error
}

type ID int

const (
	None ID = iota
	Reset
	Razzaque2001OverTimeRotation
	Razzaque2001Rotational
	Razzaque2001Curvature
	Razzaque2001Hybrid
	Steinicke2008Translational
	Azmandian2016World
)

var names = [...]string{
	None:                         "None",
	Reset:                        "Reset",
	Razzaque2001OverTimeRotation: "Razzaque2001OverTimeRotation",
	Razzaque2001Rotational:       "Razzaque2001Rotational",
	Razzaque2001Curvature:        "Razzaque2001Curvature",
	Razzaque2001Hybrid:           "Razzaque2001Hybrid",
	Steinicke2008Translational:   "Steinicke2008Translational",
	Azmandian2016World:           "Azmandian2016World",
}

var registry = map[ID]func() Technique{
	None:                         func() Technique { return NoRedirection{} },
	Reset:                        func() Technique { return ResetRedirection{} },
	Razzaque2001OverTimeRotation: func() Technique { return OverTime{} },
	Razzaque2001Rotational:       func() Technique { return RotationalGain{} },
	Razzaque2001Curvature:        func() Technique { return CurvatureGain{} },
	Razzaque2001Hybrid:           func() Technique { return NewHybrid(nil) },
	Steinicke2008Translational:   func() Technique { return TranslationalGain{} },
	Azmandian2016World:           func() Technique { return WorldWarping{} },
}

// IDs lists every known technique in declaration order.
func IDs() []ID {
	out := make([]ID, len(names))
	for i := range names {
		out[i] = ID(i)
	}
	return out
}

func (id ID) String() string {
	if id >= 0 && int(id) < len(names) {
		return names[id]
	}
	return fmt.Sprintf("ID(%d)", int(id))
}

// ParseID matches a technique name, ignoring case.
func ParseID(name string) (ID, error) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTechnique, name)
}

func (id ID) MarshalText() ([]byte, error) {
	if _, ok := registry[id]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTechnique, int(id))
	}
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	v, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// New builds a fresh instance of the technique named by id.
func New(id ID) (Technique, error) {
	f, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTechnique, id)
	}
	return f(), nil
}
