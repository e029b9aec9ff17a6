// Package vault defines the vault entity and its resource invariants.
package vault

// Vault is the top-level owner of dwellers, rooms and resources.
type Vault struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Caps      int `json:"caps"`
	Happiness int `json:"happiness"` // 0-100

	Power    float64 `json:"power"`
	PowerMax float64 `json:"power_max"`
	Food     float64 `json:"food"`
	FoodMax  float64 `json:"food_max"`
	Water    float64 `json:"water"`
	WaterMax float64 `json:"water_max"`

	PopulationMax int `json:"population_max"`

	// Items is the vault's storage inventory, in acquisition order.
	Items []string `json:"items,omitempty"`
}

// HasItem reports whether the storage inventory holds the named item.
func (v *Vault) HasItem(name string) bool {
	for _, it := range v.Items {
		if it == name {
			return true
		}
	}
	return false
}

// AddItem deposits an item into storage.
func (v *Vault) AddItem(name string) {
	v.Items = append(v.Items, name)
}

// Delta is a signed resource change to apply in one step.
type Delta struct {
	Power float64
	Food  float64
	Water float64
	Caps  int
}

// ApplyDelta mutates the vault's resources, clamping each to [0, max] and
// caps to >= 0. Overflow and underflow are absorbed silently; the clamp is
// the invariant, not an error.
func (v *Vault) ApplyDelta(d Delta) {
	v.Power = clamp(v.Power+d.Power, 0, v.PowerMax)
	v.Food = clamp(v.Food+d.Food, 0, v.FoodMax)
	v.Water = clamp(v.Water+d.Water, 0, v.WaterMax)
	v.Caps += d.Caps
	if v.Caps < 0 {
		v.Caps = 0
	}
}

// SpendCaps deducts caps if the balance allows it.
func (v *Vault) SpendCaps(amount int) bool {
	if amount < 0 || v.Caps < amount {
		return false
	}
	v.Caps -= amount
	return true
}

// SetHappiness clamps into [0,100].
func (v *Vault) SetHappiness(h int) {
	if h < 0 {
		h = 0
	}
	if h > 100 {
		h = 100
	}
	v.Happiness = h
}

// RecomputeHappiness sets vault happiness to the truncating integer average
// of the given dweller happiness values. Truncation (not rounding) is the
// historical behavior and is preserved on purpose.
func (v *Vault) RecomputeHappiness(dwellerHappiness []int) {
	if len(dwellerHappiness) == 0 {
		return
	}
	sum := 0
	for _, h := range dwellerHappiness {
		sum += h
	}
	v.SetHappiness(sum / len(dwellerHappiness))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
