package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/semodel/internal/agent"
	"github.com/san-kum/semodel/internal/sim"
)

const (
	DefaultNumNodes      = 100
	DefaultAvgNodeDegree = 3.0
	DefaultSteps         = 100
)

type Config struct {
	Name           string             `yaml:"name,omitempty"`
	NumNodes       int                `yaml:"num_nodes"`
	AvgNodeDegree  float64            `yaml:"avg_node_degree"`
	Population     agent.Profile      `yaml:"population"`
	InitialOpinion float64            `yaml:"initial_opinion"`
	Stakeholders   StakeholderOpinion `yaml:"stakeholders"`
	Steps          int                `yaml:"steps"`
	Seed           int64              `yaml:"seed"`
}

// StakeholderOpinion holds the initial opinion of each stakeholder category.
type StakeholderOpinion struct {
	PublicSector float64 `yaml:"public_sector"`
	Corporate    float64 `yaml:"corporate"`
	Startup      float64 `yaml:"startup"`
	Academic     float64 `yaml:"academic"`
	Civil        float64 `yaml:"civil"`
	Media        float64 `yaml:"media"`
}

func DefaultConfig() *Config {
	p := sim.DefaultParams()
	return &Config{
		NumNodes:       p.NumNodes,
		AvgNodeDegree:  p.AvgNodeDegree,
		Population:     p.Population,
		InitialOpinion: p.InitialOpinion,
		Stakeholders:   FromMap(p.Stakeholders),
		Steps:          DefaultSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file representation into engine parameters.
func (c *Config) Params() sim.Params {
	return sim.Params{
		NumNodes:       c.NumNodes,
		AvgNodeDegree:  c.AvgNodeDegree,
		Population:     c.Population,
		InitialOpinion: c.InitialOpinion,
		Stakeholders:   c.Stakeholders.Map(),
	}
}

func (c *Config) Validate() error {
	return c.Params().Validate()
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (s StakeholderOpinion) Map() map[sim.Category]float64 {
	return map[sim.Category]float64{
		sim.PublicSector: s.PublicSector,
		sim.Corporate:    s.Corporate,
		sim.Startup:      s.Startup,
		sim.Academic:     s.Academic,
		sim.Civil:        s.Civil,
		sim.Media:        s.Media,
	}
}

func FromMap(m map[sim.Category]float64) StakeholderOpinion {
	return StakeholderOpinion{
		PublicSector: m[sim.PublicSector],
		Corporate:    m[sim.Corporate],
		Startup:      m[sim.Startup],
		Academic:     m[sim.Academic],
		Civil:        m[sim.Civil],
		Media:        m[sim.Media],
	}
}

// Set assigns the opinion of one category by name.
func (s *StakeholderOpinion) Set(c sim.Category, v float64) bool {
	switch c {
	case sim.PublicSector:
		s.PublicSector = v
	case sim.Corporate:
		s.Corporate = v
	case sim.Startup:
		s.Startup = v
	case sim.Academic:
		s.Academic = v
	case sim.Civil:
		s.Civil = v
	case sim.Media:
		s.Media = v
	default:
		return false
	}
	return true
}
