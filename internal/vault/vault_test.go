package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDeltaClamps(t *testing.T) {
	v := Vault{Power: 50, PowerMax: 100, Food: 10, FoodMax: 100, Water: 90, WaterMax: 100, Caps: 100}

	v.ApplyDelta(Delta{Power: 500, Food: -50, Water: 20, Caps: -500})

	assert.Equal(t, 100.0, v.Power, "power clamps at max")
	assert.Equal(t, 0.0, v.Food, "food clamps at zero")
	assert.Equal(t, 100.0, v.Water)
	assert.Equal(t, 0, v.Caps, "caps floor at zero")
}

func TestSpendCaps(t *testing.T) {
	v := Vault{Caps: 100}

	assert.False(t, v.SpendCaps(150))
	assert.Equal(t, 100, v.Caps, "failed spend leaves balance untouched")

	assert.True(t, v.SpendCaps(100))
	assert.Equal(t, 0, v.Caps)

	assert.False(t, v.SpendCaps(-5))
}

func TestRecomputeHappinessTruncates(t *testing.T) {
	v := Vault{}

	// 70+75+79 = 224, /3 = 74.66... -> 74, not 75.
	v.RecomputeHappiness([]int{70, 75, 79})
	assert.Equal(t, 74, v.Happiness)

	// Empty input leaves happiness alone.
	v.RecomputeHappiness(nil)
	assert.Equal(t, 74, v.Happiness)
}

func TestStorageItems(t *testing.T) {
	v := Vault{}

	assert.False(t, v.HasItem("Stimpak"))
	v.AddItem("Stimpak")
	v.AddItem("RadAway")
	assert.True(t, v.HasItem("Stimpak"))
	assert.False(t, v.HasItem("Fusion Core"))
	assert.Equal(t, []string{"Stimpak", "RadAway"}, v.Items)
}

func TestSetHappinessClamps(t *testing.T) {
	v := Vault{}
	v.SetHappiness(150)
	assert.Equal(t, 100, v.Happiness)
	v.SetHappiness(-10)
	assert.Equal(t, 0, v.Happiness)
}
