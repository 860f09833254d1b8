// Package layout is the region catalog: per-skin pixel calibration kept as
// data. A layout names every meaningful zone of one table skin at one fixed
// resolution. Supporting a new skin means writing a new YAML file, not code.
package layout

import (
	"fmt"
	"image"

	"tablesight/internal/imaging"
)

// Rect is a rectangle in screenshot coordinates.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// In reports whether r sits fully inside outer.
func (r Rect) In(outer Rect) bool {
	return r.X >= outer.X && r.Y >= outer.Y &&
		r.X+r.W <= outer.X+outer.W && r.Y+r.H <= outer.Y+outer.H
}

// Signal is a colour-presence test: the crop must contain strictly more than
// Min pixels inside the inclusive RGB window.
type Signal struct {
	R   [2]int `yaml:"r"`
	G   [2]int `yaml:"g"`
	B   [2]int `yaml:"b"`
	Min int    `yaml:"min"`
}

// Window converts the signal to an imaging colour window.
func (s Signal) Window() imaging.ColorWindow {
	return imaging.ColorWindow{
		RMin: uint8(s.R[0]), RMax: uint8(s.R[1]),
		GMin: uint8(s.G[0]), GMax: uint8(s.G[1]),
		BMin: uint8(s.B[0]), BMax: uint8(s.B[1]),
	}
}

func (s Signal) validate(name string) error {
	for _, ch := range []struct {
		label string
		lo    int
		hi    int
	}{
		{"r", s.R[0], s.R[1]},
		{"g", s.G[0], s.G[1]},
		{"b", s.B[0], s.B[1]},
	} {
		if ch.lo < 0 || ch.hi > 255 || ch.lo > ch.hi {
			return fmt.Errorf("signal %s: channel %s window [%d,%d] out of range", name, ch.label, ch.lo, ch.hi)
		}
	}
	if s.Min <= 0 {
		return fmt.Errorf("signal %s: min pixel count must be positive", name)
	}
	return nil
}

// FaceSignal detects a face-up card: a connected bright component above the
// grayscale threshold with more than MinArea pixels.
type FaceSignal struct {
	Gray    int `yaml:"gray"`
	MinArea int `yaml:"min_area"`
}

// Signals are the per-skin colour calibrations for every presence check.
type Signals struct {
	StackText    Signal     `yaml:"stack_text"`
	BetText      Signal     `yaml:"bet_text"`
	CardBack     Signal     `yaml:"card_back"`
	DealerButton Signal     `yaml:"dealer_button"`
	AllInText    Signal     `yaml:"all_in_text"`
	CardFace     FaceSignal `yaml:"card_face"`
}

// CardSpot is one face-up card zone: the full card box plus the rank and suit
// glyph crops inside it.
type CardSpot struct {
	Box  Rect `yaml:"box"`
	Rank Rect `yaml:"rank"`
	Suit Rect `yaml:"suit"`
}

// SeatLayout is the set of zones belonging to one chair. Seats whose hole
// cards face the viewer (the hero, or all seats on a showdown layout) carry
// Cards; seats that only ever show card backs carry Back.
type SeatLayout struct {
	Index  int        `yaml:"index"`
	Stack  Rect       `yaml:"stack"`
	Bet    Rect       `yaml:"bet"`
	Button Rect       `yaml:"button"`
	Back   Rect       `yaml:"back,omitempty"`
	Cards  []CardSpot `yaml:"cards,omitempty"`
}

// HasFaceCards reports whether the seat's hole cards are readable.
func (s *SeatLayout) HasFaceCards() bool {
	return len(s.Cards) > 0
}

// HasBack reports whether the seat has a card-back detection zone.
func (s *SeatLayout) HasBack() bool {
	return !s.Back.Empty()
}

// BoardSlot is one community card position.
type BoardSlot struct {
	Card Rect `yaml:"card"`
	Rank Rect `yaml:"rank"`
	Suit Rect `yaml:"suit"`
}

// BoardSlots is the number of community card positions every layout defines.
const BoardSlots = 5

// Layout is one complete table calibration.
type Layout struct {
	Name    string       `yaml:"name"`
	Table   string       `yaml:"table"`
	Width   int          `yaml:"width"`
	Height  int          `yaml:"height"`
	Hero    int          `yaml:"hero"`
	Seats   []SeatLayout `yaml:"seats"`
	Board   []BoardSlot  `yaml:"board"`
	Pot     Rect         `yaml:"pot"`
	Signals Signals      `yaml:"signals"`
}

// HeroSeat returns the hero's seat layout.
func (l *Layout) HeroSeat() *SeatLayout {
	for i := range l.Seats {
		if l.Seats[i].Index == l.Hero {
			return &l.Seats[i]
		}
	}
	return nil
}

// Role tags a region with its meaning.
type Role string

const (
	RoleSeatStack  Role = "seat_stack"
	RoleSeatBet    Role = "seat_bet"
	RoleSeatButton Role = "seat_button"
	RoleSeatActive Role = "seat_active"
	RoleSeatCard   Role = "seat_card"
	RoleBoardCard  Role = "board_card"
	RolePot        Role = "pot"
)

// Region is one named catalog entry. Glyph crops inside a card box are
// derived sub-crops, not regions of their own.
type Region struct {
	Name string
	Role Role
	Seat int // -1 when not seat scoped
	Slot int // card or board slot index, -1 otherwise
	Rect image.Rectangle
}

// Regions flattens the layout into its catalog entries, one per semantic
// role instance.
func (l *Layout) Regions() []Region {
	var out []Region
	for _, s := range l.Seats {
		out = append(out,
			Region{Name: fmt.Sprintf("seat_%d_stack", s.Index), Role: RoleSeatStack, Seat: s.Index, Slot: -1, Rect: s.Stack.Bounds()},
			Region{Name: fmt.Sprintf("seat_%d_bet", s.Index), Role: RoleSeatBet, Seat: s.Index, Slot: -1, Rect: s.Bet.Bounds()},
			Region{Name: fmt.Sprintf("seat_%d_button", s.Index), Role: RoleSeatButton, Seat: s.Index, Slot: -1, Rect: s.Button.Bounds()},
		)
		if s.HasBack() {
			out = append(out, Region{Name: fmt.Sprintf("seat_%d_active", s.Index), Role: RoleSeatActive, Seat: s.Index, Slot: -1, Rect: s.Back.Bounds()})
		}
		for j, spot := range s.Cards {
			out = append(out, Region{Name: fmt.Sprintf("seat_%d_card_%d", s.Index, j), Role: RoleSeatCard, Seat: s.Index, Slot: j, Rect: spot.Box.Bounds()})
		}
	}
	for k, slot := range l.Board {
		out = append(out, Region{Name: fmt.Sprintf("board_card_%d", k), Role: RoleBoardCard, Seat: -1, Slot: k, Rect: slot.Card.Bounds()})
	}
	out = append(out, Region{Name: "pot", Role: RolePot, Seat: -1, Slot: -1, Rect: l.Pot.Bounds()})
	return out
}

// Validate checks the calibration for internal consistency: every zone inside
// the screen, glyph crops inside their card boxes, and no two regions of
// different roles overlapping. A layout that fails here is a deployment
// problem, not a recognition problem.
func (l *Layout) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("layout has no name")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("layout %s: screen size %dx%d", l.Name, l.Width, l.Height)
	}
	if len(l.Seats) == 0 {
		return fmt.Errorf("layout %s: no seats", l.Name)
	}

	screen := Rect{X: 0, Y: 0, W: l.Width, H: l.Height}

	for i, s := range l.Seats {
		if s.Index != i {
			return fmt.Errorf("layout %s: seat %d declared at position %d, seats must be listed in index order", l.Name, s.Index, i)
		}
		if s.Stack.Empty() || s.Bet.Empty() || s.Button.Empty() {
			return fmt.Errorf("layout %s: seat %d is missing a stack, bet or button zone", l.Name, s.Index)
		}
		if !s.HasBack() && !s.HasFaceCards() {
			return fmt.Errorf("layout %s: seat %d has neither a card-back zone nor face-up card spots", l.Name, s.Index)
		}
		for j, spot := range s.Cards {
			if spot.Box.Empty() || spot.Rank.Empty() || spot.Suit.Empty() {
				return fmt.Errorf("layout %s: seat %d card %d has an empty zone", l.Name, s.Index, j)
			}
			if !spot.Rank.In(spot.Box) || !spot.Suit.In(spot.Box) {
				return fmt.Errorf("layout %s: seat %d card %d glyph crops leave the card box", l.Name, s.Index, j)
			}
		}
	}

	hero := l.HeroSeat()
	if hero == nil {
		return fmt.Errorf("layout %s: hero seat %d does not exist", l.Name, l.Hero)
	}
	if !hero.HasFaceCards() {
		return fmt.Errorf("layout %s: hero seat %d has no face-up card spots", l.Name, l.Hero)
	}

	if len(l.Board) != BoardSlots {
		return fmt.Errorf("layout %s: %d board slots, want %d", l.Name, len(l.Board), BoardSlots)
	}
	for k, slot := range l.Board {
		if slot.Card.Empty() || slot.Rank.Empty() || slot.Suit.Empty() {
			return fmt.Errorf("layout %s: board slot %d has an empty zone", l.Name, k)
		}
		if !slot.Rank.In(slot.Card) || !slot.Suit.In(slot.Card) {
			return fmt.Errorf("layout %s: board slot %d glyph crops leave the card box", l.Name, k)
		}
	}

	if l.Pot.Empty() {
		return fmt.Errorf("layout %s: no pot zone", l.Name)
	}

	regions := l.Regions()
	for _, r := range regions {
		rr := Rect{X: r.Rect.Min.X, Y: r.Rect.Min.Y, W: r.Rect.Dx(), H: r.Rect.Dy()}
		if !rr.In(screen) {
			return fmt.Errorf("layout %s: region %s leaves the %dx%d screen", l.Name, r.Name, l.Width, l.Height)
		}
	}
	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			if regions[i].Rect.Overlaps(regions[j].Rect) {
				return fmt.Errorf("layout %s: regions %s and %s overlap", l.Name, regions[i].Name, regions[j].Name)
			}
		}
	}

	for _, sig := range []struct {
		name string
		s    Signal
	}{
		{"stack_text", l.Signals.StackText},
		{"bet_text", l.Signals.BetText},
		{"card_back", l.Signals.CardBack},
		{"dealer_button", l.Signals.DealerButton},
		{"all_in_text", l.Signals.AllInText},
	} {
		if err := sig.s.validate(sig.name); err != nil {
			return fmt.Errorf("layout %s: %w", l.Name, err)
		}
	}
	if l.Signals.CardFace.Gray <= 0 || l.Signals.CardFace.Gray > 255 {
		return fmt.Errorf("layout %s: card_face gray threshold %d out of range", l.Name, l.Signals.CardFace.Gray)
	}
	if l.Signals.CardFace.MinArea <= 0 {
		return fmt.Errorf("layout %s: card_face min_area must be positive", l.Name)
	}

	return nil
}
