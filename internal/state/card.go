package state

import (
	"fmt"
	"strings"
)

// Card encoding:
// - high 4 bits: suit (0:Diamond, 1:Spade, 2:Club, 3:Heart)
// - low 4 bits: rank (1:A, 2..9, 10, 11:J, 12:Q, 13:K)
//
// Two sentinels fall outside the nibble scheme: CardAbsent marks a slot with no
// card graphic at all, CardFaceDown marks a card whose back is visible.
type Card byte

const (
	CardAbsent   Card = 0x00
	CardFaceDown Card = 0xFF
)

// Rank is the card face value, Ace low in the catalog order (A=1 .. K=13).
type Rank byte

const (
	RankAce   Rank = 1
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
)

// Suit order matches the template asset order: diamonds first.
type Suit byte

const (
	Diamond Suit = iota
	Spade
	Club
	Heart
)

func (s Suit) String() string {
	switch s {
	case Diamond:
		return "♦"
	case Spade:
		return "♠"
	case Club:
		return "♣"
	case Heart:
		return "♥"
	}
	return "?"
}

func (r Rank) String() string {
	switch {
	case r == RankAce:
		return "A"
	case r >= 2 && r <= 10:
		return fmt.Sprintf("%d", byte(r))
	case r == RankJack:
		return "J"
	case r == RankQueen:
		return "Q"
	case r == RankKing:
		return "K"
	}
	return "?"
}

// MakeCard packs a rank and suit into a Card.
func MakeCard(r Rank, s Suit) Card {
	return Card(byte(s)<<4 | byte(r)&0x0F)
}

// Rank returns the face value, or 0 for the sentinels.
func (c Card) Rank() Rank {
	if c == CardAbsent || c == CardFaceDown {
		return 0
	}
	return Rank(c & 0x0F)
}

// Suit returns the suit nibble. Only meaningful for face-up cards.
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// FaceUp reports whether the card carries a readable rank and suit.
func (c Card) FaceUp() bool {
	return c != CardAbsent && c != CardFaceDown
}

func (c Card) String() string {
	switch c {
	case CardAbsent:
		return "-"
	case CardFaceDown:
		return "[]"
	}
	return c.Rank().String() + c.Suit().String()
}

// ParseCard converts a string such as "A♦" or "10♠" into a Card.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "-":
		return CardAbsent, nil
	case "[]":
		return CardFaceDown, nil
	}
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid card string: %q", s)
	}

	var suit Suit
	switch {
	case strings.HasSuffix(s, "♦"):
		suit = Diamond
	case strings.HasSuffix(s, "♠"):
		suit = Spade
	case strings.HasSuffix(s, "♣"):
		suit = Club
	case strings.HasSuffix(s, "♥"):
		suit = Heart
	default:
		return 0, fmt.Errorf("invalid suit in card string: %q", s)
	}

	rankStr := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(s, "♦"), "♠"), "♣"), "♥")
	var rank Rank
	switch strings.ToUpper(rankStr) {
	case "A":
		rank = RankAce
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = Rank(rankStr[0] - '0')
	case "10":
		rank = RankTen
	case "J":
		rank = RankJack
	case "Q":
		rank = RankQueen
	case "K":
		rank = RankKing
	default:
		return 0, fmt.Errorf("invalid rank in card string: %q", s)
	}

	return MakeCard(rank, suit), nil
}

// MarshalJSON renders the card in its display form so logged and served states
// stay readable.
func (c Card) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

func (c *Card) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseCard(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
