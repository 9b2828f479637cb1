package sim

import "github.com/san-kum/semodel/internal/agent"

// Category names one institutional stakeholder group.
type Category string

const (
	PublicSector Category = "public_sector"
	Corporate    Category = "corporate"
	Startup      Category = "startup"
	Academic     Category = "academic"
	Civil        Category = "civil"
	Media        Category = "media"
)

// Categories lists every stakeholder group in placement order.
var Categories = []Category{PublicSector, Corporate, Startup, Academic, Civil, Media}

// Fixed personality baselines per category. They are not configurable.
var stakeholderProfiles = map[Category]agent.Profile{
	PublicSector: {Engagement: 0.57, Trustability: 0.53, Influenceability: 0.59, Recovery: 0.70, Experience: 1},
	Corporate:    {Engagement: 0.75, Trustability: 0.49, Influenceability: 0.68, Recovery: 0.73, Experience: 1},
	Startup:      {Engagement: 0.69, Trustability: 0.29, Influenceability: 0.68, Recovery: 0.97, Experience: 1},
	Academic:     {Engagement: 0.49, Trustability: 0.20, Influenceability: 0.65, Recovery: 0.75, Experience: 1},
	Civil:        {Engagement: 0.43, Trustability: 0.21, Influenceability: 0.69, Recovery: 0.72, Experience: 1},
	Media:        {Engagement: 0.50, Trustability: 0.23, Influenceability: 0.65, Recovery: 0.71, Experience: 1},
}

func StakeholderProfile(c Category) (agent.Profile, bool) {
	p, ok := stakeholderProfiles[c]
	return p, ok
}

func (c Category) String() string { return string(c) }

// Label is the human readable category name.
func (c Category) Label() string {
	switch c {
	case PublicSector:
		return "Public sector"
	case Corporate:
		return "Corporate companies"
	case Startup:
		return "Startup business"
	case Academic:
		return "Academic sector"
	case Civil:
		return "Civil society"
	case Media:
		return "Media industry"
	default:
		return string(c)
	}
}
