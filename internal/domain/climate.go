package domain

// Climate is the descriptive weather of a region for the current season
type Climate struct {
	Weather     string `json:"weather" yaml:"weather"`
	Temperature string `json:"temperature" yaml:"temperature"`
	Season      string `json:"season" yaml:"season"`
}

// DefaultClimate is returned for regions the climate table does not know
var DefaultClimate = Climate{
	Weather:     "Moderate",
	Temperature: "30°C",
	Season:      "Kharif",
}
