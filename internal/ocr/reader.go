package ocr

import (
	"context"
	"image"
	"time"

	"golang.org/x/sync/semaphore"

	"tablesight/internal/state"
)

// DefaultTimeout bounds a single engine call. On timeout the region is
// reported unrecognized; the caller decides whether a recapture is worth it.
const DefaultTimeout = 5 * time.Second

// Reader turns crops into normalized values. It bounds how many engine
// processes run at once and how long each may take; every failure becomes a
// per-region UnrecognizedError rather than an extraction failure.
type Reader struct {
	engine  TextExtractor
	timeout time.Duration
	sem     *semaphore.Weighted
}

// NewReader wraps an engine. workers caps concurrent engine calls.
func NewReader(engine TextExtractor, workers int, timeout time.Duration) *Reader {
	if workers < 1 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Reader{
		engine:  engine,
		timeout: timeout,
		sem:     semaphore.NewWeighted(int64(workers)),
	}
}

func (r *Reader) lines(ctx context.Context, region string, img image.Image) ([]string, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, state.Unrecognized(region, "ocr aborted: %v", err)
	}
	defer r.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	lines, err := r.engine.ExtractText(callCtx, img)
	if err != nil {
		return nil, state.Unrecognized(region, "ocr: %v", err)
	}
	if len(lines) == 0 {
		return nil, state.Unrecognized(region, "no text found")
	}
	return lines, nil
}

// ReadToken reads one region holding an amount or a status literal.
func (r *Reader) ReadToken(ctx context.Context, region string, img image.Image) (Token, error) {
	lines, err := r.lines(ctx, region, img)
	if err != nil {
		return Token{}, err
	}

	tok, err := NormalizeToken(lines[0])
	if err != nil {
		return Token{}, state.Unrecognized(region, "%v", err)
	}
	return tok, nil
}

// ReadAmount reads one strictly numeric region.
func (r *Reader) ReadAmount(ctx context.Context, region string, img image.Image) (state.Amount, error) {
	tok, err := r.ReadToken(ctx, region, img)
	if err != nil {
		return state.Amount{}, err
	}
	if tok.Kind != TokenAmount {
		return state.Amount{}, state.Unrecognized(region, "expected a number, found a status literal")
	}
	return state.Amt(tok.Amount), nil
}

// ReadPot reads the pot region. The skin may render one figure (the pot) or
// two (pot and pot total); label fragments between them are skipped.
func (r *Reader) ReadPot(ctx context.Context, region string, img image.Image) (pot, total state.Amount, err error) {
	lines, err := r.lines(ctx, region, img)
	if err != nil {
		return state.Amount{}, state.Amount{}, err
	}

	var amounts []float64
	for _, line := range lines {
		if v, perr := NormalizeAmount(line); perr == nil {
			amounts = append(amounts, v)
		}
	}

	switch len(amounts) {
	case 0:
		return state.Amount{}, state.Amount{}, state.Unrecognized(region, "no amount in %q", lines)
	case 1:
		return state.Amt(amounts[0]), state.Amount{}, nil
	default:
		return state.Amt(amounts[0]), state.Amt(amounts[1]), nil
	}
}
