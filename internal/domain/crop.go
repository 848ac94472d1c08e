package domain

import "strings"

// SoilType selects a crop list in the catalog
type SoilType string

const (
	SoilAlluvial SoilType = "alluvial"
	SoilBlack    SoilType = "black"
	SoilRed      SoilType = "red"
	SoilSandy    SoilType = "sandy"
	SoilLaterite SoilType = "laterite"
)

// DefaultSoil is used when the requested soil type is not in the catalog
const DefaultSoil = SoilAlluvial

// Valid reports whether s is one of the known soil types
func (s SoilType) Valid() bool {
	switch s {
	case SoilAlluvial, SoilBlack, SoilRed, SoilSandy, SoilLaterite:
		return true
	}
	return false
}

// WaterAvailability is the farmer's reported access to irrigation
type WaterAvailability string

const (
	WaterLow    WaterAvailability = "low"
	WaterMedium WaterAvailability = "medium"
	WaterHigh   WaterAvailability = "high"
)

// WaterLevels lists the availability values offered to clients
var WaterLevels = []Option{
	{Value: string(WaterHigh), Label: "High (Canal / River nearby)"},
	{Value: string(WaterMedium), Label: "Medium (Borewell / Well)"},
	{Value: string(WaterLow), Label: "Low (Rain-dependent)"},
}

// Risk is the profitability-volatility tier of a crop
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Valid reports whether r is a known risk tier
func (r Risk) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// WaterNeed is how much irrigation a crop requires
type WaterNeed string

const (
	WaterNeedLow    WaterNeed = "Low"
	WaterNeedMedium WaterNeed = "Medium"
	WaterNeedHigh   WaterNeed = "High"
)

// Valid reports whether w is a known water need
func (w WaterNeed) Valid() bool {
	switch w {
	case WaterNeedLow, WaterNeedMedium, WaterNeedHigh:
		return true
	}
	return false
}

// FarmerInput is the query a farmer submits
type FarmerInput struct {
	Location          string `json:"location" query:"location"`
	SoilType          string `json:"soilType" query:"soilType"`
	WaterAvailability string `json:"waterAvailability" query:"waterAvailability"`
}

// Missing returns the names of fields that are blank
func (in FarmerInput) Missing() []string {
	var missing []string
	if strings.TrimSpace(in.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(in.SoilType) == "" {
		missing = append(missing, "soilType")
	}
	if strings.TrimSpace(in.WaterAvailability) == "" {
		missing = append(missing, "waterAvailability")
	}
	return missing
}

// CropRecommendation describes one crop's suitability
type CropRecommendation struct {
	Name           string    `json:"name" yaml:"name"`
	Emoji          string    `json:"emoji" yaml:"emoji"`
	ProfitPerAcre  int       `json:"profitPerAcre" yaml:"profit_per_acre"`
	Risk           Risk      `json:"risk" yaml:"risk"`
	BestSowingTime string    `json:"bestSowingTime" yaml:"best_sowing_time"`
	GrowthDuration string    `json:"growthDuration" yaml:"growth_duration"`
	WaterNeeded    WaterNeed `json:"waterNeeded" yaml:"water_needed"`
	Description    string    `json:"description" yaml:"description"`
}

// RecommendationResult is the ranked answer to a FarmerInput
type RecommendationResult struct {
	Location    string               `json:"location"`
	Weather     string               `json:"weather"`
	Temperature string               `json:"temperature"`
	Season      string               `json:"season"`
	Crops       []CropRecommendation `json:"crops"`
}

// Option is a selectable form value with its display label
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormOptions lists the values a client form should offer
type FormOptions struct {
	Regions     []string `json:"regions"`
	SoilTypes   []Option `json:"soilTypes"`
	WaterLevels []Option `json:"waterLevels"`
}
