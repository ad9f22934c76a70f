// Package steering picks the direction world redirection steers the user
// toward. Strategies run before the technique of the frame and may record the
// target they chose in Scene.SelectedTarget.
package steering

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

var (
	ErrUnknownStrategy    = errors.New("unknown steering strategy")
	ErrNoTargets          = errors.New("no steering target")
	ErrUndefinedDirection = errors.New("steering direction undefined")
)

// Strategy returns the direction to steer toward. On error the returned vector
// is the physical head forward, which callers may use as a fallback.
type Strategy interface {
	SteerTo(s *scene.Scene) (r3.Vec, error)
}

type ID int

const (
	NoSteering ID = iota
	SteerToCenter
	SteerToOrbit
	SteerToMultipleTargets
	SteerInDirection
	PotentialField
)

var names = [...]string{
	NoSteering:             "NoSteering",
	SteerToCenter:          "SteerToCenter",
	SteerToOrbit:           "SteerToOrbit",
	SteerToMultipleTargets: "SteerToMultipleTargets",
	SteerInDirection:       "SteerInDirection",
	PotentialField:         "PotentialField",
}

var registry = map[ID]func() Strategy{
	NoSteering:             func() Strategy { return Forward{} },
	SteerToCenter:          func() Strategy { return Center{} },
	SteerToOrbit:           func() Strategy { return Orbit{} },
	SteerToMultipleTargets: func() Strategy { return MultipleTargets{} },
	SteerInDirection:       func() Strategy { return Direction{} },
	PotentialField:         func() Strategy { return &Potential{} },
}

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

func ParseID(name string) (ID, error) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

func (id ID) MarshalText() ([]byte, error) {
	if _, ok := registry[id]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(id))
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

func New(id ID) (Strategy, error) {
	f, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, id)
	}
	return f(), nil
}
