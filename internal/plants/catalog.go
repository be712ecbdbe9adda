// Package plants holds the houseplant catalog and the CO2 recommendation engine.
package plants

import (
	"errors"

	"github.com/google/uuid"
)

// ErrUnknownSpecies is returned when an identity is not in the catalog.
var ErrUnknownSpecies = errors.New("unknown plant species")

// namespace seeds the name-based species identities so they are stable
// across restarts.
var namespace = uuid.MustParse("5b1f2c7e-8a43-4d0e-9c61-3f2a7d9e0b14")

// Species is one selectable houseplant.
type Species struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Symbol         string    `json:"symbol"`
	AbsorptionRate float64   `json:"absorptionGramsPerDay"` // CO2, g/day
}

// NewSpecies builds a species whose ID is derived from its name.
func NewSpecies(name, symbol string, absorptionRate float64) Species {
	return Species{
		ID:             uuid.NewSHA1(namespace, []byte(name)),
		Name:           name,
		Symbol:         symbol,
		AbsorptionRate: absorptionRate,
	}
}

var catalog = []Species{
	NewSpecies("Snake Plant", "leaf.fill", 6.5),
	NewSpecies("Spider Plant", "laurel.leading", 5.8),
	NewSpecies("Pothos", "leaf.arrow.triangle.circlepath", 5.2),
	NewSpecies("Peace Lily", "camera.macro", 7.1),
}

// Catalog returns a copy of the known species in display order.
func Catalog() []Species {
	out := make([]Species, len(catalog))
	copy(out, catalog)
	return out
}

// Default returns the first catalog entry.
func Default() Species {
	return catalog[0]
}

// Lookup finds a species by identity.
func Lookup(id uuid.UUID) (Species, error) {
	for _, s := range catalog {
		if s.ID == id {
			return s, nil
		}
	}
	return Species{}, ErrUnknownSpecies
}

// LookupName finds a species by display name.
func LookupName(name string) (Species, error) {
	for _, s := range catalog {
		if s.Name == name {
			return s, nil
		}
	}
	return Species{}, ErrUnknownSpecies
}
