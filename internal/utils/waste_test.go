package utils

import (
	"math"
	"testing"

	"github.com/kopdigital/koperasi-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCalculateWastePoints(t *testing.T) {
	cases := []struct {
		name      string
		weight    float64
		wasteType models.WasteType
		want      int64
	}{
		{"plastic 3kg", 3, models.WasteTypePlastic, 15},
		{"organic 2.5kg", 2.5, models.WasteTypeOrganic, 5},
		{"paper rounds half up", 1.5, models.WasteTypePaper, 5},
		{"metal", 1.2, models.WasteTypeMetal, 10},
		{"glass", 0.1, models.WasteTypeGlass, 0},
		{"electronic", 2, models.WasteTypeElectronic, 30},
		{"unknown falls back to default rate", 4, models.WasteType("textile"), 4},
		{"zero weight", 0, models.WasteTypePlastic, 0},
		{"not a number", math.NaN(), models.WasteTypePlastic, 0},
		{"huge weight saturates", 1e18, models.WasteTypeElectronic, math.MaxInt64},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CalculateWastePoints(tc.weight, tc.wasteType))
		})
	}
}

func TestPointRateCoversEveryWasteType(t *testing.T) {
	for _, wt := range models.WasteTypes {
		_, ok := pointRates[wt]
		require.True(t, ok, "missing rate for %s", wt)
	}
}

func TestCalculatePickupFee(t *testing.T) {
	require.Equal(t, int64(0), CalculatePickupFee(12))
	require.Equal(t, int64(5000), CalculatePickupFee(4))
	require.Equal(t, int64(5000), CalculatePickupFee(10))
	require.Equal(t, int64(0), CalculatePickupFee(10.01))
}

func TestCalculateEnvironmentalImpact(t *testing.T) {
	impact := CalculateEnvironmentalImpact(10)
	require.Equal(t, 21.0, impact.CO2SavedKg)
	require.Equal(t, 0.17, impact.TreesSaved)
	require.Equal(t, 150.0, impact.WaterSavedLiters)

	require.Equal(t, models.EnvironmentalImpact{}, CalculateEnvironmentalImpact(0))
}
