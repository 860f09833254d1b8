package state

// SeatStatus is what a seat is doing in the observed hand.
type SeatStatus byte

const (
	// SeatUnknown flags a seat whose signals contradicted each other. The
	// caller decides whether the state is still usable.
	SeatUnknown SeatStatus = iota
	SeatEmpty
	SeatActive
	SeatFolded
	SeatAllIn
)

func (s SeatStatus) String() string {
	switch s {
	case SeatEmpty:
		return "empty"
	case SeatActive:
		return "active"
	case SeatFolded:
		return "folded"
	case SeatAllIn:
		return "all-in"
	}
	return "unknown"
}

func (s SeatStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *SeatStatus) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"empty"`:
		*s = SeatEmpty
	case `"active"`:
		*s = SeatActive
	case `"folded"`:
		*s = SeatFolded
	case `"all-in"`:
		*s = SeatAllIn
	default:
		*s = SeatUnknown
	}
	return nil
}

// Present reports whether a player occupies the seat.
func (s SeatStatus) Present() bool {
	return s == SeatActive || s == SeatFolded || s == SeatAllIn || s == SeatUnknown
}

// Position at the table relative to the dealer button. Empty seats carry no
// position.
type Position string

const (
	PositionNone Position = ""
	Dealer       Position = "D"
	SmallBlind   Position = "SB"
	BigBlind     Position = "BB"
	OtherPos     Position = "Other"
)

// Move is the action a seat is inferred to have taken this street, in the
// compact encoding the advisor prompt uses. NP marks a seat that has not acted
// yet.
type Move string

const (
	MoveNone  Move = "NP"
	MoveBet   Move = "B"
	MoveAllIn Move = "B-ALLIN"
	MoveCheck Move = "C"
	MoveFold  Move = "F"
)

// Amount is a normalized chip amount. Valid reports whether the value was
// actually read; a zero-valued invalid Amount means "nothing there or not
// readable", never "zero chips".
type Amount struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Amt builds a valid Amount.
func Amt(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// Seat is one chair at the table.
type Seat struct {
	Index    int        `json:"index"`
	Cards    []Card     `json:"cards,omitempty"`
	Stack    Amount     `json:"stack"`
	Bet      Amount     `json:"bet"`
	Status   SeatStatus `json:"status"`
	Dealer   bool       `json:"dealer"`
	Position Position   `json:"position,omitempty"`
	Move     Move       `json:"move,omitempty"`
}
