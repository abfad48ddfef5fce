package menu

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Role distinguishes the two independent decks built from the catalog.
type Role string

const (
	// RoleOrder cards are dealt face-down into player hands.
	RoleOrder Role = "order"
	// RoleKitchen cards sit face-up on the shared table.
	RoleKitchen Role = "kitchen"
)

// Card is one (dish, variant) pairing drawn from the catalog.
// Cards are value records; Served is the one mutable flag and only
// meaningful on order cards.
type Card struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Dish     string `json:"dish"`
	Variant  string `json:"variant"`
	Role     Role   `json:"role"`
	Served   bool   `json:"served,omitempty"`
}

// String returns a short human-readable form (e.g. "Milanesa Napolitana").
func (c Card) String() string {
	return fmt.Sprintf("%s %s", c.Dish, c.Variant)
}

// CardID derives the stable identifier for a card. Ids are unique within a
// deck and reconstructible from the catalog position; the role prefix keeps
// the two decks in separate id namespaces.
func CardID(role Role, category, dish string, variantIdx, dishIdx int) string {
	return fmt.Sprintf("%s-%s-%s-%d-%d", role, slug(category), slug(dish), variantIdx, dishIdx)
}

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func slug(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), "-")
}
