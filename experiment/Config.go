package experiment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/netql/agent/tabular/qlearning"
	"github.com/samuelfneumann/netql/environment/network"
)

// ErrInvalidConfig is returned when an experiment configuration is
// invalid. Errors from the learner configuration are wrapped as well,
// so that errors.Is matches both this error and
// qlearning.ErrInvalidConfig.
var ErrInvalidConfig = errors.New("invalid experiment configuration")

// validate validates struct tags of configurations
var validate = validator.New()

// Topology names the way the network of an experiment is built
type Topology string

const (
	// Tree is the predefined nine node tree
	Tree Topology = "tree"

	// Random is an internet-like topology grown by preferential
	// attachment
	Random Topology = "random"

	// Custom is a topology given by an explicit edge list
	Custom Topology = "custom"
)

// Config is the complete configuration of a single experiment. Every
// field is explicit; only StepLimit falls back to a default when zero.
type Config struct {
	Topology   Topology `json:"topology" toml:"topology" yaml:"topology" validate:"required,oneof=tree random custom"`
	Nodes      int      `json:"nodes" toml:"nodes" yaml:"nodes" validate:"gte=1"`
	Edges      [][2]int `json:"edges,omitempty" toml:"edges,omitempty" yaml:"edges,omitempty" validate:"dive,dive,gte=0"`
	Attachment int      `json:"attachment,omitempty" toml:"attachment,omitempty" yaml:"attachment,omitempty" validate:"gte=0"`

	// RiskRatio is the fraction of high risk nodes of a random topology.
	// It must be set for random topologies unless HighRisk is given.
	RiskRatio *float64 `json:"riskRatio,omitempty" toml:"riskRatio,omitempty" yaml:"riskRatio,omitempty" validate:"omitempty,gte=0,lte=1"`

	// HighRisk overrides the high risk nodes of the topology when not
	// nil. An empty, non-nil list marks every node as baseline.
	HighRisk []int `json:"highRisk" toml:"highRisk" yaml:"highRisk" validate:"dive,gte=0"`

	Target    int    `json:"target" toml:"target" yaml:"target" validate:"gte=0"`
	Start     int    `json:"start" toml:"start" yaml:"start" validate:"gte=0"`
	Seed      uint64 `json:"seed" toml:"seed" yaml:"seed"`
	StepLimit int    `json:"stepLimit,omitempty" toml:"stepLimit,omitempty" yaml:"stepLimit,omitempty" validate:"gte=0"`

	qlearning.Config `yaml:",inline"`
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate: %w: %v", ErrInvalidConfig, err)
	}

	switch c.Topology {
	case Tree:
		if c.Nodes != network.TreeNodes {
			return fmt.Errorf("validate: %w: tree topology has %d nodes, "+
				"got %d", ErrInvalidConfig, network.TreeNodes, c.Nodes)
		}

	case Random:
		if c.Attachment < 1 || (c.Nodes > 1 && c.Attachment >= c.Nodes) {
			return fmt.Errorf("validate: %w: attachment %d not in [1, %d)",
				ErrInvalidConfig, c.Attachment, c.Nodes)
		}
		if c.RiskRatio == nil && c.HighRisk == nil {
			return fmt.Errorf("validate: %w: random topology needs a risk "+
				"ratio or high risk nodes", ErrInvalidConfig)
		}

	case Custom:
		for _, e := range c.Edges {
			if e[0] >= c.Nodes || e[1] >= c.Nodes {
				return fmt.Errorf("validate: %w: edge %v not in [0, %d)",
					ErrInvalidConfig, e, c.Nodes)
			}
		}
	}

	if c.Target >= c.Nodes {
		return fmt.Errorf("validate: %w: target %d not in [0, %d)",
			ErrInvalidConfig, c.Target, c.Nodes)
	}
	if c.Start >= c.Nodes {
		return fmt.Errorf("validate: %w: start %d not in [0, %d)",
			ErrInvalidConfig, c.Start, c.Nodes)
	}
	for _, u := range c.HighRisk {
		if u >= c.Nodes {
			return fmt.Errorf("validate: %w: high risk node %d not in "+
				"[0, %d)", ErrInvalidConfig, u, c.Nodes)
		}
	}

	if err := c.Config.Validate(); err != nil {
		return fmt.Errorf("validate: %w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Network builds the network described by the Config
func (c Config) Network() (*network.Network, error) {
	var (
		n   *network.Network
		err error
	)

	switch c.Topology {
	case Tree:
		n = network.NewTree()
		err = n.SelectTarget(c.Target)

	case Random:
		var ratio float64
		if c.RiskRatio != nil {
			ratio = *c.RiskRatio
		}
		n, err = network.NewRandom(c.Nodes, c.Attachment, ratio, c.Target,
			c.Seed)

	case Custom:
		n, err = network.New(c.Nodes, c.Edges, c.Target)

	default:
		err = fmt.Errorf("%w: no such topology %q", ErrInvalidConfig,
			c.Topology)
	}
	if err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}

	if c.HighRisk != nil {
		if err := n.SetHighRisk(c.HighRisk); err != nil {
			return nil, fmt.Errorf("network: %w", err)
		}
	}
	return n, nil
}

// Load loads a Config from a TOML, YAML or JSON file, chosen by the
// file extension. The loaded Config is not validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not read config: %w", err)
	}

	var c Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		_, err = toml.Decode(string(data), &c)

	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&c)

	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&c)

	default:
		return Config{}, fmt.Errorf("load: unknown config format %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load: could not decode %v: %w", path,
			err)
	}

	return c, nil
}
