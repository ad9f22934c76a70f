package parameters

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidParameter = errors.New("invalid parameter")

// LoadYAML decodes parameters from r on top of Default, so omitted keys keep
// their default values, then validates the result.
func LoadYAML(r io.Reader) (*Parameters, error) {
	p := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode parameters: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFile reads a YAML parameter file.
func LoadFile(path string) (*Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

// Validate rejects values the techniques cannot evaluate. It does not judge
// physiological plausibility.
func (p *Parameters) Validate() error {
	for _, f := range p.floats() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid(f.key, "must be finite")
		}
	}

	switch {
	case p.RedirectionBuffer < 0:
		return invalid("redirection_buffer", "must be >= 0")
	case p.ResetRedirectionCoeff < 0 || p.ResetRedirectionCoeff > 1:
		return invalid("reset_redirection_coeff", "must be in [0, 1]")
	case p.GoGoActivationDistance < 0:
		return invalid("gogo_activation_distance", "must be >= 0")
	case p.SwampSquareLength < 0:
		return invalid("swamp_square_length", "must be >= 0")
	case p.SwampCDRatio <= 0:
		return invalid("swamp_cd_ratio", "must be > 0")
	case p.GainsRotational.Same < 0 || p.GainsRotational.Opposite < 0:
		return invalid("gains_rotational", "gains must be >= 0")
	case p.SamadMass <= 0:
		return invalid("samad_mass", "must be > 0")
	case p.RotationalError < 0:
		return invalid("rotational_error", "must be >= 0")
	case p.CurvatureRadius <= 0:
		return invalid("curvature_radius", "must be > 0")
	case p.SmoothingFactor < 0 || p.SmoothingFactor > 1:
		return invalid("smoothing_factor", "must be in [0, 1]")
	case p.DampeningRange < 0 || p.DampeningDistanceThreshold < 0:
		return invalid("dampening_range", "dampening values must be >= 0")
	case p.SteerToOrbitRadius < 0:
		return invalid("steer_to_orbit_radius", "must be >= 0")
	case p.SmoothingParameter < 0:
		return invalid("smoothing_parameter", "must be >= 0")
	case p.InverseDistancePow <= 0:
		return invalid("inverse_distance_power", "must be > 0")
	}

	switch p.HybridAggregation {
	case AggregateMaxAbs, AggregateSum, AggregateMean, AggregateWeighted:
	case "":
		p.HybridAggregation = AggregateMaxAbs
	default:
		return invalid("hybrid_aggregation", fmt.Sprintf("unknown aggregation %q", p.HybridAggregation))
	}
	return nil
}

type namedFloat struct {
	key   string
	value float64
}

func (p *Parameters) floats() []namedFloat {
	return []namedFloat{
		{"redirection_buffer", p.RedirectionBuffer},
		{"redirection_lateness", p.RedirectionLateness},
		{"reset_redirection_coeff", p.ResetRedirectionCoeff},
		{"gogo_coefficient", p.GoGoCoefficient},
		{"gogo_activation_distance", p.GoGoActivationDistance},
		{"gogo_chest_offset", p.GoGoChestOffset},
		{"swamp_square_length", p.SwampSquareLength},
		{"swamp_cd_ratio", p.SwampCDRatio},
		{"samad_mass", p.SamadMass},
		{"samad_ratio", p.SamadRatio},
		{"rotational_error", p.RotationalError},
		{"rotation_threshold", p.RotationThreshold},
		{"walking_threshold", p.WalkingThreshold},
		{"over_time_rotation", p.OverTimeRotation},
		{"gains_rotational.same", p.GainsRotational.Same},
		{"gains_rotational.opposite", p.GainsRotational.Opposite},
		{"gains_translational.x", p.GainsTranslational.X},
		{"gains_translational.y", p.GainsTranslational.Y},
		{"gains_translational.z", p.GainsTranslational.Z},
		{"curvature_radius", p.CurvatureRadius},
		{"dampening_range", p.DampeningRange},
		{"dampening_distance_threshold", p.DampeningDistanceThreshold},
		{"smoothing_factor", p.SmoothingFactor},
		{"hybrid_weights.x", p.HybridWeights.X},
		{"hybrid_weights.y", p.HybridWeights.Y},
		{"hybrid_weights.z", p.HybridWeights.Z},
		{"steer_to_orbit_radius", p.SteerToOrbitRadius},
		{"potential_epsilon", p.PotentialEpsilon},
		{"attractive_gain", p.AttractiveGain},
		{"smoothing_parameter", p.SmoothingParameter},
		{"inverse_distance_power", p.InverseDistancePow},
	}
}

func invalid(key, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, key, reason)
}
