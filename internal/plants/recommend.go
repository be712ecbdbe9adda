package plants

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// RoomVolumeM3 is the assumed room size, roughly 12x12x8 ft.
	RoomVolumeM3 = 32.6
	// CO2DensityGPerM3 is the density of carbon dioxide.
	CO2DensityGPerM3 = 1980.0

	defaultOxygenPerPlant = 1.0
)

// oxygenPerPlant is litres of O2 released per plant per day, keyed by name.
var oxygenPerPlant = map[string]float64{
	"Peace Lily":   1.8,
	"Snake Plant":  1.2,
	"Spider Plant": 1.5,
	"Pothos":       1.3,
}

// Recommendation is the number of plants needed for one day's CO2 load and
// the oxygen they release.
type Recommendation struct {
	PlantCount   int    `json:"plantCount"`
	OxygenOutput string `json:"oxygenLitresPerDay"` // one decimal place
}

// OxygenPerPlant returns the per-plant oxygen output of s in litres/day.
func OxygenPerPlant(s Species) float64 {
	if v, ok := oxygenPerPlant[s.Name]; ok {
		return v
	}
	return defaultOxygenPerPlant
}

// CO2MassGrams converts a concentration in ppm into grams of CO2 in the room.
func CO2MassGrams(ppm float64) float64 {
	return RoomVolumeM3 * (ppm / 1_000_000.0) * CO2DensityGPerM3
}

// Recommend computes the plant count for a CO2 maximum in ppm. A nil reading
// counts as 0 ppm.
func Recommend(co2MaxPPM *float64, s Species) Recommendation {
	var ppm float64
	if co2MaxPPM != nil {
		ppm = *co2MaxPPM
	}

	count := 0
	if s.AbsorptionRate > 0 {
		count = int(math.Ceil(CO2MassGrams(ppm) / s.AbsorptionRate))
	}
	if count < 0 {
		count = 0
	}

	oxygen := decimal.NewFromInt(int64(count)).Mul(decimal.NewFromFloat(OxygenPerPlant(s)))
	return Recommendation{
		PlantCount:   count,
		OxygenOutput: oxygen.StringFixed(1),
	}
}
