package game

import (
	"math/rand"

	"overseer/internal/dweller"
)

// randomSpecial rolls modest starting stats for a recruited wanderer.
func randomSpecial() dweller.Special {
	s := dweller.Special{}
	for _, st := range dweller.AllStats {
		s.Set(st, 1+rand.Intn(5))
	}
	return s
}

func randomGender() string {
	if rand.Intn(2) == 0 {
		return "male"
	}
	return "female"
}
