package statistics

import (
	"errors"
	"fmt"

	"github.com/ymatsuda/toukei/internal/categories"
	"github.com/ymatsuda/toukei/internal/estat"
)

// ErrBothLevelsFailed wraps the combined municipality and prefecture failure
// of a fallback fetch. Both causes are joined so neither is silently dropped.
var ErrBothLevelsFailed = errors.New("municipality and prefecture fetches both failed")

// IsValidation reports whether err is a caller error (unknown category,
// malformed area code) rather than an upstream or transport failure.
// Validation errors are rejected outright and never retried.
func IsValidation(err error) bool {
	return errors.Is(err, categories.ErrNotFound) || errors.Is(err, estat.ErrInvalidAreaCode)
}

func bothLevelsError(muniErr, prefErr error) error {
	return fmt.Errorf(
		"%w: municipality=%v, prefecture=%v",
		ErrBothLevelsFailed,
		muniErr,
		prefErr,
	)
}
