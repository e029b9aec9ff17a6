// Package relationship tracks pairwise bonds between dwellers and the
// affinity that grows while they share a room.
package relationship

import "time"

type Type string

const (
	TypeAcquaintance Type = "ACQUAINTANCE"
	TypeRomantic     Type = "ROMANTIC"
	TypePartner      Type = "PARTNER"
)

// Relationship is an unordered pair; DwellerAID sorts before DwellerBID so
// each pair has one canonical row.
type Relationship struct {
	ID         string `json:"id"`
	VaultID    string `json:"vault_id"`
	DwellerAID string `json:"dweller_a_id"`
	DwellerBID string `json:"dweller_b_id"`

	Type     Type    `json:"type"`
	Affinity float64 `json:"affinity"` // 0-100

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PairKey returns the canonical ordering of two dweller IDs.
func PairKey(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Involves reports whether the dweller is one side of the pair.
func (r *Relationship) Involves(dwellerID string) bool {
	return r.DwellerAID == dwellerID || r.DwellerBID == dwellerID
}

// Other returns the partner of the given dweller in this pair.
func (r *Relationship) Other(dwellerID string) string {
	if r.DwellerAID == dwellerID {
		return r.DwellerBID
	}
	return r.DwellerAID
}

// AddAffinity raises affinity, capped at 100.
func (r *Relationship) AddAffinity(amount float64) {
	r.Affinity += amount
	if r.Affinity > 100 {
		r.Affinity = 100
	}
	if r.Affinity < 0 {
		r.Affinity = 0
	}
}
