// Package body implements body warping: each frame a technique computes one
// offset per limb and places the virtual limbs at physical position + offset.
package body

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeusync/vhtoolkit/internal/core/scene"
)

var ErrUnknownTechnique = errors.New("unknown body redirection technique")

// Technique applies one frame of body redirection. It either commits one offset
// per limb or returns an error and leaves the scene untouched.
type Technique interface {
	Redirect(s *scene.Scene) error
}

type ID int

const (
	None ID = iota
	Reset
	Azmandian2016Body
	Azmandian2016Hybrid
	Han2018TranslationalShift
	Han2018InterpolatedReach
	Cheng2017Sparse
	Geslain2022Polynom
	Poupyrev1996GoGo
	Lecuyer2000Swamp
	Samad2019Weight
)

var names = [...]string{
	None:                      "None",
	Reset:                     "Reset",
	Azmandian2016Body:         "Azmandian2016Body",
	Azmandian2016Hybrid:       "Azmandian2016Hybrid",
	Han2018TranslationalShift: "Han2018TranslationalShift",
	Han2018InterpolatedReach:  "Han2018InterpolatedReach",
	Cheng2017Sparse:           "Cheng2017Sparse",
	Geslain2022Polynom:        "Geslain2022Polynom",
	Poupyrev1996GoGo:          "Poupyrev1996GoGo",
	Lecuyer2000Swamp:          "Lecuyer2000Swamp",
	Samad2019Weight:           "Samad2019Weight",
}

var registry = map[ID]func() Technique{
	None:                      func() Technique { return NoRedirection{} },
	Reset:                     func() Technique { return ResetRedirection{} },
	Azmandian2016Body:         func() Technique { return BodyWarping{} },
	Azmandian2016Hybrid:       func() Technique { return HybridWarping{} },
	Han2018TranslationalShift: func() Technique { return TranslationalShift{} },
	Han2018InterpolatedReach:  func() Technique { return InterpolatedReach{} },
	Cheng2017Sparse:           func() Technique { return SparseHaptics{} },
	Geslain2022Polynom:        func() Technique { return &Polynom{} },
	Poupyrev1996GoGo:          func() Technique { return GoGo{} },
	Lecuyer2000Swamp:          func() Technique { return Swamp{} },
	Samad2019Weight:           func() Technique { return Weight{} },
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
