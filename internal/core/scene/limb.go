package scene

import (
	"fmt"

	"github.com/google/uuid"
)

// Limb ties one physical transform to the virtual transforms it drives. Both
// are fixed when the limb is created.
type Limb struct {
	id       uuid.UUID
	physical *Transform
	virtual  []*Transform
	previous Transform
}

func NewLimb(physical *Transform, virtual ...*Transform) (*Limb, error) {
	if physical == nil {
		return nil, fmt.Errorf("%w: limb has no physical transform", ErrMissingTransform)
	}
	if len(virtual) == 0 {
		return nil, fmt.Errorf("%w: limb has no virtual transform", ErrMissingTransform)
	}
	for i, v := range virtual {
		if v == nil {
			return nil, fmt.Errorf("%w: limb virtual transform %d", ErrMissingTransform, i)
		}
	}
	return &Limb{
		id:       uuid.New(),
		physical: physical,
		virtual:  append([]*Transform(nil), virtual...),
		previous: physical.snapshot(),
	}, nil
}

func (l *Limb) ID() uuid.UUID { return l.id }

func (l *Limb) Physical() *Transform { return l.physical }

// Virtual returns the first virtual transform.
func (l *Limb) Virtual() *Transform { return l.virtual[0] }

// Virtuals returns every virtual transform driven by the limb.
func (l *Limb) Virtuals() []*Transform {
	return append([]*Transform(nil), l.virtual...)
}

// Previous is the physical pose recorded at the end of the last frame.
func (l *Limb) Previous() Transform { return l.previous }
