package collector

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable matches every failure to obtain bars from a provider.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrNoData is returned when the provider answers with zero usable bars.
	ErrNoData = errors.New("no data in range")
)

// UnavailableError wraps a provider failure. errors.Is(err, ErrDataUnavailable)
// holds for every UnavailableError.
type UnavailableError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s data unavailable: %v", e.Provider, e.Symbol, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrDataUnavailable }
