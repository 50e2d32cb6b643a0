package models

// EnvironmentalImpact estimates the savings from the recycled weight.
type EnvironmentalImpact struct {
	CO2SavedKg       float64 `json:"co2_saved_kg"`
	TreesSaved       float64 `json:"trees_saved"`
	WaterSavedLiters float64 `json:"water_saved_liters"`
}

// WasteSummary aggregates a member's contributions and points ledger.
type WasteSummary struct {
	TotalPoints         int64                 `json:"total_points"`
	RedeemedPoints      int64                 `json:"redeemed_points"`
	AvailablePoints     int64                 `json:"available_points"`
	CurrentMonthPoints  int64                 `json:"current_month_points"`
	TotalWeightKg       float64               `json:"total_weight_kg"`
	TotalContributions  int                   `json:"total_contributions"`
	WeightByType        map[WasteType]float64 `json:"weight_by_type"`
	EnvironmentalImpact EnvironmentalImpact   `json:"environmental_impact"`
}
