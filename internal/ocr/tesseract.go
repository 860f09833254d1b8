package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strings"
)

// Tesseract shells out to the tesseract CLI, feeding the crop as PNG on
// stdin. One process per call; concurrency is bounded by the Reader, not
// here.
type Tesseract struct {
	Binary string
	Lang   string
	PSM    string
}

func NewTesseract() *Tesseract {
	return &Tesseract{
		Binary: "tesseract",
		Lang:   "eng",
		PSM:    "6", // single uniform block, handles one- and two-line crops
	}
}

func (t *Tesseract) ExtractText(ctx context.Context, img image.Image) ([]string, error) {
	args := []string{"stdin", "stdout", "-l", t.Lang, "--psm", t.PSM}

	cmd := exec.CommandContext(ctx, t.Binary, args...)

	var out bytes.Buffer
	var errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("tesseract start error: %w", err)
	}

	if err := png.Encode(stdin, img); err != nil {
		stdin.Close()
		cmd.Wait()
		return nil, fmt.Errorf("write png error: %w", err)
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("tesseract error: %v, output: %s", err, errOut.String())
	}

	var lines []string
	for _, line := range strings.Split(out.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
