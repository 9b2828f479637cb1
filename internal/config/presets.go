package config

import (
	"sort"

	"github.com/san-kum/semodel/internal/agent"
)

// Average node degrees measured on city hashtag networks.
const (
	DegreeTaipei  = 1.92
	DegreeTelAviv = 2.16
	DegreeTallinn = 2.20
)

var basePopulation = agent.Profile{Engagement: 0.49, Trustability: 0.21, Influenceability: 0.53, Recovery: 0.63, Experience: 1}

var Presets = map[string]*Config{
	"taipei": {
		Name: "taipei", NumNodes: 100, AvgNodeDegree: DegreeTaipei, Population: basePopulation, Steps: 100,
		Stakeholders: StakeholderOpinion{PublicSector: 1, Corporate: 1, Startup: 1, Academic: -1, Civil: -1, Media: -1},
	},
	"telaviv": {
		Name: "telaviv", NumNodes: 100, AvgNodeDegree: DegreeTelAviv, Population: basePopulation, Steps: 100,
		Stakeholders: StakeholderOpinion{PublicSector: 1, Corporate: 1, Startup: 1, Academic: -1, Civil: -1, Media: -1},
	},
	"tallinn": {
		Name: "tallinn", NumNodes: 100, AvgNodeDegree: DegreeTallinn, Population: basePopulation, Steps: 100,
		Stakeholders: StakeholderOpinion{PublicSector: 1, Corporate: 1, Startup: 1, Academic: -1, Civil: -1, Media: -1},
	},
	"polarized": {
		Name: "polarized", NumNodes: 300, AvgNodeDegree: 4, Population: agent.Profile{Engagement: 0.8, Trustability: 0.5, Influenceability: 0.7, Recovery: 0.9, Experience: 1}, Steps: 200,
		Stakeholders: StakeholderOpinion{PublicSector: 1, Corporate: 1, Startup: 1, Academic: -1, Civil: -1, Media: -1},
	},
	"consensus": {
		Name: "consensus", NumNodes: 200, AvgNodeDegree: 3, Population: basePopulation, InitialOpinion: 0.2, Steps: 150,
		Stakeholders: StakeholderOpinion{PublicSector: 1, Corporate: 1, Startup: 1, Academic: 1, Civil: 1, Media: 1},
	},
	"small": {
		Name: "small", NumNodes: 10, AvgNodeDegree: 2, Population: basePopulation, Steps: 30,
		Stakeholders: StakeholderOpinion{PublicSector: 1, Corporate: 1, Startup: 1, Academic: -1, Civil: -1, Media: -1},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
