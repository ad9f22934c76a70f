// Package touch remaps the virtual limbs through an interpolated displacement
// of space, so that touching a physical prop lands on a virtual surface placed
// elsewhere. Reference points are where the props are; interpolated points
// are where they are shown.
package touch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

var ErrUnknownTechnique = errors.New("unknown touch redirection technique")

type Technique interface {
	Redirect(s *scene.Scene) error
}

// Staler is implemented by techniques that cache a fit of the scene point
// pairs and can tell when the scene no longer matches it.
type Staler interface {
	Stale(s *scene.Scene) bool
}

type ID int

const (
	None ID = iota
	Kohli2010RedirectedTouching
	InverseDistanceTouching
)

var names = [...]string{
	None:                        "None",
	Kohli2010RedirectedTouching: "Kohli2010RedirectedTouching",
	InverseDistanceTouching:     "InverseDistanceTouching",
}

var registry = map[ID]func() Technique{
	None:                        func() Technique { return NoRedirection{} },
	Kohli2010RedirectedTouching: func() Technique { return &RedirectedTouching{} },
	InverseDistanceTouching:     func() Technique { return InverseDistance{} },
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

func New(id ID) (Technique, error) {
	f, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTechnique, id)
	}
	return f(), nil
}
