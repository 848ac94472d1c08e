package service

import (
	"sort"
	"strings"

	"github.com/cropprospector/backend/internal/catalog"
	"github.com/cropprospector/backend/internal/domain"
	"github.com/cropprospector/backend/pkg/utils"
)

// lowWaterProfitFactor scales the profit of thirsty crops when water is scarce
const lowWaterProfitFactor = 0.6

// Diagnostics describes which fallbacks and adjustments a recommendation used
type Diagnostics struct {
	SoilFallback     bool
	LocationFallback bool
	Penalised        int
}

// Recommender ranks catalog crops for a farmer's conditions.
// It holds no mutable state and is safe for concurrent use.
type Recommender struct {
	catalog *catalog.Catalog
}

// NewRecommender creates a recommender over the given catalog
func NewRecommender(c *catalog.Catalog) *Recommender {
	return &Recommender{catalog: c}
}

// Recommend returns crops for the input ranked by profit per acre, highest first
func (r *Recommender) Recommend(in domain.FarmerInput) domain.RecommendationResult {
	res, _ := r.RecommendWithDiagnostics(in)
	return res
}

// RecommendWithDiagnostics is Recommend plus a report of fallbacks taken
func (r *Recommender) RecommendWithDiagnostics(in domain.FarmerInput) (domain.RecommendationResult, Diagnostics) {
	var diag Diagnostics

	climate, ok := r.catalog.Climate(in.Location)
	if !ok {
		climate = domain.DefaultClimate
		diag.LocationFallback = true
	}

	crops, ok := r.catalog.Crops(in.SoilType)
	if !ok {
		crops = r.catalog.CropsOrDefault(string(r.catalog.DefaultSoil()))
		diag.SoilFallback = true
	}

	// crops is already a private copy, so adjusting in place leaves the catalog untouched
	if domain.WaterAvailability(in.WaterAvailability) == domain.WaterLow {
		for i := range crops {
			if crops[i].WaterNeeded != domain.WaterNeedHigh {
				continue
			}
			crops[i].ProfitPerAcre = utils.ScaleRound(crops[i].ProfitPerAcre, lowWaterProfitFactor)
			crops[i].Risk = domain.RiskHigh
			diag.Penalised++
		}
	}

	sort.SliceStable(crops, func(i, j int) bool {
		return crops[i].ProfitPerAcre > crops[j].ProfitPerAcre
	})

	return domain.RecommendationResult{
		Location:    in.Location,
		Weather:     climate.Weather,
		Temperature: climate.Temperature,
		Season:      climate.Season,
		Crops:       crops,
	}, diag
}

// soilLabel keeps metric label cardinality bounded
func soilLabel(soil string) string {
	s := domain.SoilType(strings.ToLower(strings.TrimSpace(soil)))
	if s.Valid() {
		return string(s)
	}
	return "other"
}

func waterLabel(water string) string {
	switch w := domain.WaterAvailability(water); w {
	case domain.WaterLow, domain.WaterMedium, domain.WaterHigh:
		return string(w)
	}
	return "other"
}
