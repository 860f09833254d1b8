// Package templates holds the reference glyph masks that card recognition
// matches against. The bank is loaded once at startup and only read after
// that, so it is safe to share across concurrent extractions.
package templates

import (
	"fmt"

	"tablesight/internal/imaging"
)

// Canonical asset order. Mask files carry no labels; the position of a mask
// in the file is its identity.
var (
	RankLabels = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	SuitLabels = []string{"♦", "♠", "♣", "♥"}
)

// Two equally plausible glyphs within this margin resolve to the earlier
// candidate in canonical order, which keeps matching deterministic.
const tieEpsilon = 0.005

// Template is one named reference mask.
type Template struct {
	Label string
	Mask  imaging.Mask
}

// Bank is the full template set: rank glyphs and suit glyphs, plus the
// binarization thresholds the masks were generated at. Runtime crops must be
// binarized at the same thresholds or the comparison is meaningless.
type Bank struct {
	Ranks []Template
	Suits []Template

	RankThreshold int
	SuitThreshold int
}

// MatchResult is the outcome of comparing one crop against a candidate set.
type MatchResult struct {
	Index int
	Label string
	// Score is 1 - mismatches/total: 1.0 is a pixel-perfect match.
	Score float64
}

// BestMatch compares the input mask against every candidate and returns the
// best one. A later candidate replaces the current best only when it beats it
// by more than the tie margin.
func BestMatch(input imaging.Mask, candidates []Template) (MatchResult, error) {
	if len(candidates) == 0 {
		return MatchResult{}, fmt.Errorf("no templates to match against")
	}

	total := input.W * input.H
	if total == 0 {
		return MatchResult{}, fmt.Errorf("empty input mask")
	}

	best := MatchResult{Index: -1, Score: -1}
	for i, cand := range candidates {
		if cand.Mask.W != input.W || cand.Mask.H != input.H {
			return MatchResult{}, fmt.Errorf("template %q is %dx%d, input is %dx%d",
				cand.Label, cand.Mask.W, cand.Mask.H, input.W, input.H)
		}

		score := 1 - float64(input.Mismatches(cand.Mask))/float64(total)
		if score > best.Score+tieEpsilon {
			best = MatchResult{Index: i, Label: cand.Label, Score: score}
		}
	}
	return best, nil
}
