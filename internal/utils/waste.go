package utils

import (
	"math"

	"github.com/kopdigital/koperasi-backend/internal/models"
)

// DefaultPointRate applies to waste types missing from the rate table.
const DefaultPointRate = 1.0

// pointRates holds points awarded per kilogram of each waste type.
var pointRates = map[models.WasteType]float64{
	models.WasteTypeOrganic:    2,
	models.WasteTypePlastic:    5,
	models.WasteTypePaper:      3,
	models.WasteTypeMetal:      8,
	models.WasteTypeGlass:      4,
	models.WasteTypeElectronic: 15,
}

const (
	// FreePickupWeightKg is the estimated weight above which pickup is free.
	FreePickupWeightKg = 10.0
	// StandardPickupFee is charged in rupiah for lighter pickups.
	StandardPickupFee int64 = 5000
)

// Environmental savings per kilogram of recycled waste.
const (
	CO2SavedPerKg       = 2.1
	TreesSavedPerKg     = 0.017
	WaterSavedLitersPer = 15.0
)

// PointRate returns the points-per-kg rate for a waste type.
func PointRate(t models.WasteType) float64 {
	if rate, ok := pointRates[t]; ok {
		return rate
	}
	return DefaultPointRate
}

// CalculateWastePoints returns round(weight × rate) for the given waste type.
// The result is never negative; products beyond int64 saturate.
func CalculateWastePoints(weightKg float64, t models.WasteType) int64 {
	if weightKg <= 0 || math.IsNaN(weightKg) {
		return 0
	}
	points := math.Round(weightKg * PointRate(t))
	if points >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(points)
}

// CalculatePickupFee returns the pickup fee for an estimated weight.
func CalculatePickupFee(estimatedWeightKg float64) int64 {
	if estimatedWeightKg > FreePickupWeightKg {
		return 0
	}
	return StandardPickupFee
}

// CalculateEnvironmentalImpact converts recycled weight into estimated savings.
func CalculateEnvironmentalImpact(totalWeightKg float64) models.EnvironmentalImpact {
	return models.EnvironmentalImpact{
		CO2SavedKg:       Round2(totalWeightKg * CO2SavedPerKg),
		TreesSaved:       Round2(totalWeightKg * TreesSavedPerKg),
		WaterSavedLiters: Round2(totalWeightKg * WaterSavedLitersPer),
	}
}
