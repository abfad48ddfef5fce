package game

import (
	"fmt"
	"slices"

	"github.com/ilcamarero/camarero/menu"
)

// Outcome is the result of one resolved action: the new snapshot (with the
// score ledger already updated), the per-player deltas for broadcasting, and
// a human-readable summary. Resolution is final; callers must not apply an
// action to the same snapshot twice.
type Outcome struct {
	Match      *Match
	Points     map[string]int
	Complaints map[string]int
	Message    string
}

// ServeAction is the turn-holder's declaration that Target's hidden order in
// Category is exactly Dish + Variant.
type ServeAction struct {
	Actor    string
	Target   string
	Category string
	Dish     string
	Variant  string
	// Challengers lists everyone who rang the bell during the resolution
	// window, most recent ring first.
	Challengers []string
}

// DiscardAction removes a face-up kitchen card from the center. Challengers
// claim the discarded card matches their own pending order.
type DiscardAction struct {
	Actor       string
	CardID      string
	Challengers []string
}

type verdict int

const (
	verdictInvalidTarget verdict = iota
	verdictNoOrder
	verdictWrongDish
	verdictWrongVariant
	verdictExact
)

// accusation is a single guess evaluated against one target's hand. Serve
// challenges share the declarer's target; discard challenges are evaluated
// against the challenger's own hand.
type accusation struct {
	accuser   string
	target    string
	category  string
	dish      string
	variant   string
	onDiscard bool
	discarder string
}

// adjudicate applies the three-way comparison for one accusation, mutating
// the (already cloned) match and accumulating deltas. A missing target, a
// missing category and a wrong dish all cost the accuser one complaint with
// nothing revealed; a right dish with the wrong variant reveals the card
// unserved; only an exact match scores.
func (m *Match) adjudicate(a accusation, points, complaints map[string]int) verdict {
	target, ok := m.Players[a.target]
	if !ok {
		complaints[a.accuser]++
		return verdictInvalidTarget
	}
	idx := target.firstUnserved(a.category)
	if idx < 0 {
		complaints[a.accuser]++
		return verdictNoOrder
	}
	card := &target.Hand[idx]
	if card.Dish != a.dish {
		complaints[a.accuser]++
		return verdictWrongDish
	}
	if card.Variant != a.variant {
		// The dish is public knowledge now even though the guess missed.
		m.Table.Revealed = append(m.Table.Revealed, *card)
		complaints[a.accuser]++
		return verdictWrongVariant
	}

	card.Served = true
	m.Table.Revealed = append(m.Table.Revealed, *card)
	points[a.accuser] += FullMatchPoints
	if a.onDiscard {
		// The order transfers served to whoever claimed it, and the
		// discarder pays for throwing away a pending order.
		served := *card
		target.Hand = slices.Delete(target.Hand, idx, idx+1)
		if winner, ok := m.Players[a.accuser]; ok {
			winner.Hand = append(winner.Hand, served)
		}
		complaints[a.discarder]++
	}
	return verdictExact
}

// Serve resolves a serve declaration. Challengers are scanned strictly in
// the given order; the first exact match wins the points, ends the scan and
// supersedes the declarer's own guess. Otherwise the declaration itself is
// adjudicated. Misses are outcomes, not errors.
func (m *Match) Serve(action ServeAction) *Outcome {
	next := m.Clone()
	points := make(map[string]int)
	complaints := make(map[string]int)

	winner := ""
	for _, ch := range action.Challengers {
		v := next.adjudicate(accusation{
			accuser:  ch,
			target:   action.Target,
			category: action.Category,
			dish:     action.Dish,
			variant:  action.Variant,
		}, points, complaints)
		if v == verdictExact {
			winner = ch
			break
		}
	}

	var message string
	if winner != "" {
		message = fmt.Sprintf("%s rang the bell first and served %s %s", next.displayName(winner), action.Dish, action.Variant)
	} else {
		v := next.adjudicate(accusation{
			accuser:  action.Actor,
			target:   action.Target,
			category: action.Category,
			dish:     action.Dish,
			variant:  action.Variant,
		}, points, complaints)
		switch v {
		case verdictExact:
			message = "order served correctly"
		case verdictWrongVariant:
			message = "right dish, wrong variant"
		case verdictWrongDish:
			message = "wrong dish"
		case verdictNoOrder:
			message = fmt.Sprintf("%s has no pending %s order", next.displayName(action.Target), action.Category)
		case verdictInvalidTarget:
			message = "invalid target"
		}
	}

	next.applyScores(points, complaints)
	next.advanceTurn()
	return &Outcome{Match: next, Points: points, Complaints: complaints, Message: message}
}

// Discard resolves a discard declaration. The card leaves the center for the
// discard pile and the center replenishes from the kitchen deck; when the
// deck is empty the match finishes. Each challenger claims the discarded
// card as their own pending order, in bell order, and the first exact claim
// takes the card and pins a complaint on the discarder. With no successful
// claim the discarder collects the uncontested point.
func (m *Match) Discard(action DiscardAction) (*Outcome, error) {
	next := m.Clone()

	idx := slices.IndexFunc(next.Table.Center, func(c menu.Card) bool {
		return c.ID == action.CardID
	})
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, action.CardID)
	}
	card := next.Table.Center[idx]
	next.Table.Center = slices.Delete(next.Table.Center, idx, idx+1)

	points := make(map[string]int)
	complaints := make(map[string]int)

	winner := ""
	for _, ch := range action.Challengers {
		v := next.adjudicate(accusation{
			accuser:   ch,
			target:    ch,
			category:  card.Category,
			dish:      card.Dish,
			variant:   card.Variant,
			onDiscard: true,
			discarder: action.Actor,
		}, points, complaints)
		if v == verdictExact {
			winner = ch
			break
		}
	}

	var message string
	if winner == "" {
		points[action.Actor] += UncontestedDiscardPoints
		message = fmt.Sprintf("%s discarded without complaints", card)
	} else {
		message = fmt.Sprintf("%s claimed the discarded %s", next.displayName(winner), card)
	}

	next.Table.DiscardPile = append(next.Table.DiscardPile, card)
	if len(next.Table.KitchenDeck) > 0 {
		next.Table.Center = append(next.Table.Center, next.Table.KitchenDeck[0])
		next.Table.KitchenDeck = slices.Clone(next.Table.KitchenDeck[1:])
	} else {
		next.Status = StatusFinished
	}

	next.applyScores(points, complaints)
	next.advanceTurn()
	return &Outcome{Match: next, Points: points, Complaints: complaints, Message: message}, nil
}
