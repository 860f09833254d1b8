package state

import "time"

// Street is inferred from the board card count, never observed directly.
type Street string

const (
	Preflop Street = "preflop"
	Flop    Street = "flop"
	Turn    Street = "turn"
	River   Street = "river"
)

// StreetFromBoard maps a board card count to its street. ok is false for
// counts that cannot occur in a consistent hand.
func StreetFromBoard(n int) (Street, bool) {
	switch n {
	case 0:
		return Preflop, true
	case 3:
		return Flop, true
	case 4:
		return Turn, true
	case 5:
		return River, true
	}
	return "", false
}

// Warning is a non-fatal consistency annotation on an otherwise valid state.
type Warning struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Warning codes.
const (
	WarnPotMismatch      = "pot_mismatch"
	WarnPotTotalMismatch = "pot_total_mismatch"
	WarnPotDecreased     = "pot_decreased"
	WarnStackUnread      = "stack_unread"
	WarnBetUnread        = "bet_unread"
	WarnHeroCardsUnread  = "hero_cards_unread"
	WarnSeatUnresolved   = "seat_unresolved"
	WarnButtonOnEmpty    = "button_on_empty"
)

// TableState is the one output of an extraction: everything read off a single
// screenshot, reconciled into a consistent snapshot.
type TableState struct {
	Layout     string    `json:"layout"`
	CapturedAt time.Time `json:"captured_at"`
	Hero       int       `json:"hero"`
	Seats      []Seat    `json:"seats"`
	Board      []Card    `json:"board"`
	Pot        Amount    `json:"pot"`
	PotTotal   Amount    `json:"pot_total"`
	Street     Street    `json:"street"`
	Warnings   []Warning `json:"warnings,omitempty"`
}

// DealerIndex returns the seat holding the button.
func (t *TableState) DealerIndex() (int, bool) {
	for _, s := range t.Seats {
		if s.Dealer {
			return s.Index, true
		}
	}
	return 0, false
}

// PresentSeats returns the indices of occupied seats in table order.
func (t *TableState) PresentSeats() []int {
	var out []int
	for _, s := range t.Seats {
		if s.Status.Present() {
			out = append(out, s.Index)
		}
	}
	return out
}

// HeroSeat returns the hero's seat.
func (t *TableState) HeroSeat() *Seat {
	for i := range t.Seats {
		if t.Seats[i].Index == t.Hero {
			return &t.Seats[i]
		}
	}
	return nil
}

// Warn appends a consistency warning.
func (t *TableState) Warn(code, detail string) {
	t.Warnings = append(t.Warnings, Warning{Code: code, Detail: detail})
}
