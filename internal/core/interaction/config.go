package interaction

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/parameters"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/body"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/touch"
	"github.com/zeusync/vhtoolkit/internal/core/redirection/world"
	"github.com/zeusync/vhtoolkit/internal/core/scene"
	"github.com/zeusync/vhtoolkit/internal/core/steering"
)

var ErrInvalidConfig = errors.New("invalid interaction config")

// Mode names the driver a session runs.
type Mode string

const (
	ModeBody  Mode = "body"
	ModeWorld Mode = "world"
	ModeTouch Mode = "touch"
)

// Config describes a redirection session. Technique and strategy names are
// parsed on decode, so an unknown name fails loading.
type Config struct {
	Mode      Mode        `json:"mode" yaml:"mode"`
	Body      body.ID     `json:"body" yaml:"body"`
	World     world.ID    `json:"world" yaml:"world"`
	Strategy  steering.ID `json:"strategy" yaml:"strategy"`
	Touch     touch.ID    `json:"touch" yaml:"touch"`
	Dampening bool        `json:"dampening" yaml:"dampening"`
	Smoothing bool        `json:"smoothing" yaml:"smoothing"`
	// Redirect starts the session redirecting instead of passing through.
	Redirect bool `json:"redirect" yaml:"redirect"`

	Parameters *parameters.Parameters `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:     ModeWorld,
		Body:     body.None,
		World:    world.None,
		Strategy: steering.NoSteering,
		Touch:    touch.None,
		Redirect: true,
	}
}

// LoadConfig decodes a session on top of DefaultConfig. An inline parameters
// block is decoded on top of parameters.Default.
func LoadConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	c.Parameters = parameters.Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode interaction config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadConfig(f)
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModeBody, ModeWorld, ModeTouch:
	case "":
		c.Mode = ModeWorld
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.Parameters != nil {
		if err := c.Parameters.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Build creates the driver for the configured mode on s. Configured parameters
// replace those of the scene.
func (c *Config) Build(s *scene.Scene, logger log.Log) (Driver, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var d Driver
	switch c.Mode {
	case ModeBody:
		d = NewBody(s, logger, c.Body)
	case ModeTouch:
		d = NewTouch(s, logger, c.Touch)
	default:
		d = NewWorld(s, logger, c.World, c.Strategy)
	}
	if c.Parameters != nil {
		if err := d.SetParameters(c.Parameters); err != nil {
			return nil, err
		}
	}
	s.ApplyDampening = c.Dampening
	s.ApplySmoothing = c.Smoothing
	if c.Redirect {
		d.StartRedirection()
	}
	return d, nil
}
