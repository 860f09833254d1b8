package state

import (
	"fmt"
	"strings"
)

// UnrecognizedError reports a region whose content could not be read with
// enough confidence. It is expected and local: one unreadable region never
// fails an extraction by itself.
type UnrecognizedError struct {
	Region string
	Reason string
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("unrecognized %s: %s", e.Region, e.Reason)
}

// Unrecognized builds an UnrecognizedError.
func Unrecognized(region, format string, args ...any) error {
	return &UnrecognizedError{Region: region, Reason: fmt.Sprintf(format, args...)}
}

// PartialStateError means the per-region signals contradict each other beyond
// repair. It carries whatever could still be assembled so the caller can show
// it while asking for a recapture.
type PartialStateError struct {
	State    *TableState
	Problems []string
}

func (e *PartialStateError) Error() string {
	return "inconsistent table state: " + strings.Join(e.Problems, "; ")
}
