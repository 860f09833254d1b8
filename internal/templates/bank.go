package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"tablesight/internal/imaging"
)

// Asset file names inside the template directory.
const (
	RankMaskFile = "card_rank_masks.bin"
	SuitMaskFile = "card_symbol_masks.bin"
)

// AssetError reports an unusable template asset. Without templates no card
// can be recognized, so startup treats it as fatal.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("template asset %s: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// Load reads the rank and suit mask files from dir and validates them against
// the canonical label sets. Every failure comes back as *AssetError.
func Load(dir string) (*Bank, error) {
	rankThreshold, rankMasks, err := loadMaskFile(filepath.Join(dir, RankMaskFile), len(RankLabels))
	if err != nil {
		return nil, err
	}
	suitThreshold, suitMasks, err := loadMaskFile(filepath.Join(dir, SuitMaskFile), len(SuitLabels))
	if err != nil {
		return nil, err
	}

	bank := &Bank{
		Ranks:         make([]Template, len(RankLabels)),
		Suits:         make([]Template, len(SuitLabels)),
		RankThreshold: rankThreshold,
		SuitThreshold: suitThreshold,
	}
	for i, label := range RankLabels {
		bank.Ranks[i] = Template{Label: label, Mask: rankMasks[i]}
	}
	for i, label := range SuitLabels {
		bank.Suits[i] = Template{Label: label, Mask: suitMasks[i]}
	}
	return bank, nil
}

func loadMaskFile(path string, wantCount int) (int, []imaging.Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, &AssetError{Path: path, Err: err}
	}
	defer f.Close()

	threshold, masks, err := DecodeMasks(f)
	if err != nil {
		return 0, nil, &AssetError{Path: path, Err: err}
	}
	if len(masks) != wantCount {
		return 0, nil, &AssetError{Path: path, Err: fmt.Errorf("expected %d masks, found %d", wantCount, len(masks))}
	}
	return threshold, masks, nil
}
