package exploration

import "math/rand"

// TableEntry is a weighted loot entry.
type TableEntry struct {
	Item   string
	Value  int
	Weight int
}

// Table is a weighted loot table.
type Table []TableEntry

// Roll draws one entry from the table.
func (t Table) Roll(rng *rand.Rand) (Loot, bool) {
	total := 0
	for _, e := range t {
		total += e.Weight
	}
	if total == 0 {
		return Loot{}, false
	}
	roll := rng.Intn(total)
	current := 0
	for _, e := range t {
		current += e.Weight
		if roll < current {
			return Loot{Item: e.Item, Value: e.Value}, true
		}
	}
	return Loot{}, false
}

// WastelandTable is what trips bring home. Luck shifts the draw count, not
// the weights.
var WastelandTable = Table{
	{Item: "bottle caps stash", Value: 25, Weight: 30},
	{Item: "stimpak", Value: 40, Weight: 20},
	{Item: "radaway", Value: 40, Weight: 15},
	{Item: "scrap metal", Value: 10, Weight: 15},
	{Item: "leather armor", Value: 60, Weight: 10},
	{Item: "hunting rifle", Value: 90, Weight: 7},
	{Item: "plasma pistol", Value: 150, Weight: 3},
}

var eventTexts = []string{
	"Found an abandoned shack and searched it.",
	"Fought off a pack of wild mongrels.",
	"Traded rumors with a passing caravan.",
	"Took shelter from a radstorm.",
	"Spotted a super mutant camp and kept a wide berth.",
	"Dug through the rubble of an old gas station.",
}
