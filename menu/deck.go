package menu

// BuildDeck derives the full deck for a role: one card per (dish, variant)
// pair, 100 cards in catalog order. Building and shuffling are separate steps
// so that deck composition can be verified independent of order.
func BuildDeck(role Role) []Card {
	cards := make([]Card, 0, 2*len(Catalog))
	for dishIdx, item := range Catalog {
		for variantIdx, variant := range item.Variants {
			cards = append(cards, Card{
				ID:       CardID(role, item.Category, item.Dish, variantIdx, dishIdx),
				Category: item.Category,
				Dish:     item.Dish,
				Variant:  variant,
				Role:     role,
			})
		}
	}
	return cards
}
