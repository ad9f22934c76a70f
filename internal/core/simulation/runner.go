package simulation

import (
	"context"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/zeusync/vhtoolkit/internal/core/geometry"
	"github.com/zeusync/vhtoolkit/internal/core/interaction"
	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/parameters"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/body"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/world"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
	"github.com/zeusync/vhtoolkit/internal/core/steering"
)

const (
	DefaultDeltaTime = 1.0 / 90
	// headHeight is where simulated heads sit above the floor.
	headHeight = 1.7
)

// Result summarises one simulated run.
type Result struct {
	Technique string
	Frames    int
	// Failures counts frames the technique failed and passed through.
	Failures int
	// Offset is the final virtual minus physical position of the hand or head.
	Offset r3.Vec
	// Yaw is the final virtual minus physical head yaw, in degrees.
	Yaw float64
}

// Runner plays simulated movements through interaction drivers. Every run
// builds its own scene so runs may proceed concurrently.
type Runner struct {
	Params    *parameters.Parameters
	Log       log.Log
	DeltaTime float64
}

func NewRunner(p *parameters.Parameters, logger log.Log) *Runner {
	if p == nil {
		p = parameters.Default()
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Runner{Params: p, Log: logger, DeltaTime: DefaultDeltaTime}
}

func (r *Runner) dt() float64 {
	if r.DeltaTime <= 0 {
		return DefaultDeltaTime
	}
	return r.DeltaTime
}

// Reach moves one hand along reach with the body technique id, the physical
// target at reach.To shown at virtualTarget.
func (r *Runner) Reach(ctx context.Context, id body.ID, reach Reach, virtualTarget r3.Vec) (Result, error) {
	s := scene.New(r.Params.Clone())
	s.DeltaTime = r.dt()
	s.Origin = scene.At(reach.From)
	s.PhysicalTarget = scene.At(reach.To)
	s.VirtualTarget = scene.At(virtualTarget)
	s.PhysicalHead = scene.At(r3.Vec{X: reach.From.X, Y: headHeight, Z: reach.From.Z - 0.3})
	s.VirtualHead = scene.At(s.PhysicalHead.Position)
	s.Targets = []*scene.Transform{s.VirtualTarget}
	hand, err := s.AddLimb(scene.At(reach.From), scene.At(reach.From))
	if err != nil {
		return Result{}, err
	}

	d := interaction.NewBody(s, r.Log, id)
	d.StartRedirection()
	res := Result{Technique: id.String()}
	for elapsed := 0.0; ; elapsed += s.DeltaTime {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p, done := reach.At(elapsed)
		hand.Physical().Position = p
		if err := d.Frame(); err != nil {
			res.Failures++
		}
		res.Frames++
		if done {
			break
		}
	}
	res.Offset = s.Redirection(0)
	res.Yaw = geometry.Yaw(s.HeadToHeadRotation())
	return res, nil
}

// Walk moves the head along walk with the world technique id steered by
// strategy toward targets. A walk that never ends stops after maxFrames.
func (r *Runner) Walk(ctx context.Context, id world.ID, strategy steering.ID, walk Walk, targets []r3.Vec, maxFrames int) (Result, error) {
	s := scene.New(r.Params.Clone())
	s.DeltaTime = r.dt()
	s.ApplyDampening = true
	s.PhysicalHead = scene.At(walk.From)
	s.VirtualHead = scene.At(walk.From)
	s.Origin = scene.At(walk.From)
	s.PhysicalTarget = scene.At(walk.To)
	s.VirtualTarget = scene.At(walk.To)
	for _, t := range targets {
		s.Targets = append(s.Targets, scene.At(t))
	}

	d := interaction.NewWorld(s, r.Log, id, strategy)
	d.StartRedirection()
	res := Result{Technique: id.String()}
	for elapsed := 0.0; maxFrames <= 0 || res.Frames < maxFrames; elapsed += s.DeltaTime {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p, yaw, done := walk.At(elapsed)
		s.PhysicalHead.Position = p
		s.PhysicalHead.Rotation = geometry.YawRotation(yaw)
		if err := d.Frame(); err != nil {
			res.Failures++
		}
		res.Frames++
		if done {
			break
		}
	}
	res.Offset = r3.Sub(s.VirtualHead.Position, s.PhysicalHead.Position)
	res.Yaw = geometry.Yaw(s.HeadToHeadRotation())
	return res, nil
}
