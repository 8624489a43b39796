package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxup/booking-service/internal/model"
)

var testUnit = &model.Unit{ID: 7, PricePerMonth: 100, Available: true}

var testCatalog = model.ServiceCatalog{
	{ID: 1, Name: "Insurance", Price: 20},
	{ID: 2, Name: "Padlock", Price: 12.5},
	{ID: 3, Name: "Handling", Price: 35},
}

func TestComputePerDurationWithService(t *testing.T) {
	result, err := Compute(testUnit, 3, false, []int64{1}, testCatalog, 0)
	require.NoError(t, err)

	assert.Equal(t, 300.0, result.BasePrice)
	assert.Equal(t, 20.0, result.ServicesTotal)
	assert.Equal(t, 0.0, result.DiscountAmount)
	assert.Equal(t, 320.0, result.TotalPrice)
}

func TestComputeAnnualWithDiscount(t *testing.T) {
	result, err := Compute(testUnit, 1, true, nil, testCatalog, 10)
	require.NoError(t, err)

	assert.Equal(t, 120.0, result.DiscountAmount)
	assert.Equal(t, 1080.0, result.TotalPrice)
}

func TestAnnualOverridesStoredDuration(t *testing.T) {
	// The annual path must always multiply the rate by 12, whatever the
	// draft happens to store as duration.
	for _, duration := range []int{1, 3, 7, 24} {
		result, err := Compute(testUnit, duration, true, nil, testCatalog, 0)
		require.NoError(t, err)
		assert.Equal(t, 1200.0, result.TotalPrice, "duration %d", duration)
	}
}

func TestZeroDiscountIsExact(t *testing.T) {
	result, err := Compute(testUnit, 1, true, []int64{2}, testCatalog, 0)
	require.NoError(t, err)

	assert.Zero(t, result.DiscountAmount)
	assert.Equal(t, 1212.5, result.TotalPrice)
}

func TestDiscountMonotonicity(t *testing.T) {
	previous := -1.0
	for pct := 0.0; pct <= 100; pct += 5 {
		result, err := Compute(testUnit, 1, true, []int64{1, 3}, testCatalog, pct)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.TotalPrice, 0.0)
		if previous >= 0 {
			assert.Less(t, result.TotalPrice, previous, "total must strictly decrease as discount grows")
		}
		previous = result.TotalPrice
	}
}

func TestDiscountIgnoredOnPerDurationPath(t *testing.T) {
	result, err := Compute(testUnit, 6, false, nil, testCatalog, 50)
	require.NoError(t, err)

	assert.Zero(t, result.DiscountAmount)
	assert.Equal(t, 600.0, result.TotalPrice)
}

func TestInvalidDuration(t *testing.T) {
	for _, duration := range []int{0, -1, -12} {
		_, err := Compute(testUnit, duration, false, nil, testCatalog, 0)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "durationMonths", vErr.Field)
	}
}

func TestMissingUnitYieldsZeroResult(t *testing.T) {
	result, err := Compute(nil, 3, false, []int64{1}, testCatalog, 0)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}

func TestUnknownServiceIDsIgnored(t *testing.T) {
	result, err := Compute(testUnit, 1, false, []int64{99}, testCatalog, 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.TotalPrice)
}
