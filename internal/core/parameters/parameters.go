// Package parameters holds the numeric tunables read by the redirection
// techniques and steering strategies. A Parameters value is treated as
// immutable during a frame; callers swap whole values between frames.
package parameters

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Aggregation names how the hybrid walking technique combines its three
// rotation components.
type Aggregation string

const (
	AggregateMaxAbs   Aggregation = "max"
	AggregateSum      Aggregation = "sum"
	AggregateMean     Aggregation = "mean"
	AggregateWeighted Aggregation = "weighted"
)

// RotationalGains are the asymmetric gains applied depending on whether the
// user turns the same way as the required correction or the opposite way.
type RotationalGains struct {
	Same     float64 `json:"same" yaml:"same"`
	Opposite float64 `json:"opposite" yaml:"opposite"`
}

// Parameters holds every tunable. Angles are degrees, distances meters, rates per second.
type Parameters struct {
	// Body warping
	RedirectionBuffer      float64 `json:"redirection_buffer" yaml:"redirection_buffer"`             // deadzone around the origin
	MollifyBuffer          bool    `json:"mollify_buffer" yaml:"mollify_buffer"`                     // smooth ramps with a bump over the buffer
	RedirectionLateness    float64 `json:"redirection_lateness" yaml:"redirection_lateness"`         // Geslain a2·D², in [-1, 1]
	ResetRedirectionCoeff  float64 `json:"reset_redirection_coeff" yaml:"reset_redirection_coeff"`   // share of the offset removed per frame
	GoGoCoefficient        float64 `json:"gogo_coefficient" yaml:"gogo_coefficient"`                 // k in k·(d-D)²
	GoGoActivationDistance float64 `json:"gogo_activation_distance" yaml:"gogo_activation_distance"` // D
	GoGoChestOffset        float64 `json:"gogo_chest_offset" yaml:"gogo_chest_offset"`               // chest is this far below the head
	SwampSquareLength      float64 `json:"swamp_square_length" yaml:"swamp_square_length"`           // side of the square swamp area
	SwampCDRatio           float64 `json:"swamp_cd_ratio" yaml:"swamp_cd_ratio"`                     // control/display ratio inside the swamp
	SamadMass              float64 `json:"samad_mass" yaml:"samad_mass"`                             // normalized mass, high is heavy
	SamadRatio             float64 `json:"samad_ratio" yaml:"samad_ratio"`                           // horizontal to vertical gain ratio

	// World warping
	RotationalError            float64         `json:"rotational_error" yaml:"rotational_error"`     // tolerance on the angle to the target
	RotationThreshold          float64         `json:"rotation_threshold" yaml:"rotation_threshold"` // minimum head yaw per frame
	WalkingThreshold           float64         `json:"walking_threshold" yaml:"walking_threshold"`   // m/s under which the user stands still
	OverTimeRotation           float64         `json:"over_time_rotation" yaml:"over_time_rotation"` // deg/s
	GainsRotational            RotationalGains `json:"gains_rotational" yaml:"gains_rotational"`
	GainsTranslational         r3.Vec          `json:"gains_translational" yaml:"gains_translational"`
	CurvatureRadius            float64         `json:"curvature_radius" yaml:"curvature_radius"`
	DampeningRange             float64         `json:"dampening_range" yaml:"dampening_range"`
	DampeningDistanceThreshold float64         `json:"dampening_distance_threshold" yaml:"dampening_distance_threshold"`
	SmoothingFactor            float64         `json:"smoothing_factor" yaml:"smoothing_factor"` // α in (1-α)·previous + α·current
	HybridAggregation          Aggregation     `json:"hybrid_aggregation" yaml:"hybrid_aggregation"`
	HybridWeights              r3.Vec          `json:"hybrid_weights" yaml:"hybrid_weights"` // over time, rotational, curvature
	LegacyDoubleDampening      bool            `json:"legacy_double_dampening" yaml:"legacy_double_dampening"`

	// Steering
	SteerToOrbitRadius float64 `json:"steer_to_orbit_radius" yaml:"steer_to_orbit_radius"`
	PotentialEpsilon   float64 `json:"potential_epsilon" yaml:"potential_epsilon"` // central-difference step
	AttractiveGain     float64 `json:"attractive_gain" yaml:"attractive_gain"`

	// Touch interpolation
	SmoothingParameter float64 `json:"smoothing_parameter" yaml:"smoothing_parameter"` // λ
	Rescale            bool    `json:"rescale" yaml:"rescale"`
	InverseDistancePow float64 `json:"inverse_distance_power" yaml:"inverse_distance_power"`
}

// Default returns the values shipped with the toolkit's parameter asset.
func Default() *Parameters {
	return &Parameters{
		RedirectionBuffer:      0.1,
		RedirectionLateness:    0,
		ResetRedirectionCoeff:  0.087,
		GoGoCoefficient:        1,
		GoGoActivationDistance: 0.167,
		GoGoChestOffset:        0.2,
		SwampSquareLength:      0.5,
		SwampCDRatio:           0.5,
		SamadMass:              1.5,
		SamadRatio:             0.65,

		RotationalError:            0.5,
		RotationThreshold:          0,
		WalkingThreshold:           0.2,
		OverTimeRotation:           0.2,
		GainsRotational:            RotationalGains{Same: 0.67, Opposite: 1.24}, // Steinicke et al., 2010
		GainsTranslational:         r3.Vec{X: 1.2, Y: 1, Z: 1.2},
		CurvatureRadius:            7.5,
		DampeningRange:             45,
		DampeningDistanceThreshold: 1.25,
		SmoothingFactor:            0.2,
		HybridAggregation:          AggregateMaxAbs,
		HybridWeights:              r3.Vec{X: 1, Y: 1, Z: 1},

		SteerToOrbitRadius: 5,
		PotentialEpsilon:   1e-3,

		SmoothingParameter: 0,
		InverseDistancePow: 2,
	}
}

// Clone returns a copy that can be modified and swapped in between frames.
func (p *Parameters) Clone() *Parameters {
	c := *p
	return &c
}

// CurvatureRate converts the curvature radius into degrees of rotation per meter walked.
func (p *Parameters) CurvatureRate() float64 {
	return CurvatureRadiusToRotationRate(p.CurvatureRadius)
}

// CurvatureRadiusToRotationRate converts a circle radius into degrees per meter along its arc.
func CurvatureRadiusToRotationRate(radius float64) float64 {
	return 360 / (2 * math.Pi * radius)
}
