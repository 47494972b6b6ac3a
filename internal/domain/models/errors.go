package models

import (
	"errors"
	"fmt"
)

// ErrProviderUnavailable marks a whole-symbol fetch failure. When it hits an
// asset's own series the asset is omitted from the snapshot; when it hits an
// auxiliary series only the dependent signals degrade.
var ErrProviderUnavailable = errors.New("provider unavailable")

// ErrMissingAuxiliaryData marks a required cross-asset series that is absent
// or unusable. The affected signal is forced non-triggered; the rest of the
// asset's report still evaluates.
var ErrMissingAuxiliaryData = errors.New("missing auxiliary data")

// InsufficientDataError reports a series shorter than a statistic's window.
type InsufficientDataError struct {
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need %d bars, have %d", e.Need, e.Have)
}

// IsDegradable reports whether err is one of the per-signal degrade causes
// (as opposed to a programming error that should surface).
func IsDegradable(err error) bool {
	var ins *InsufficientDataError
	return errors.Is(err, ErrMissingAuxiliaryData) ||
		errors.Is(err, ErrProviderUnavailable) ||
		errors.As(err, &ins)
}
