package verify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"resultpost/internal/workflow/numberset"
)

// ErrDuplicateNumbers means one of the sets failed the duplicate pre-check,
// so the numbers were not valid in the first place regardless of match.
var ErrDuplicateNumbers = errors.New("sets contain duplicate numbers")

type Outcome string

const (
	Match    Outcome = "match"
	Mismatch Outcome = "mismatch"
)

// Sets compares an independently re-entered echo against the original entry.
// Comparison is positional and exact after normalization: the same multiset
// in a different order counts as a mismatch, which intentionally catches
// transposition errors. Both categories must match; a mismatch in either is
// an overall Mismatch with no partial outcome.
func Sets(primary, primaryEcho, secondary, secondaryEcho *numberset.NumberSet) (Outcome, error) {
	const op = "verify.Sets"

	for _, set := range []*numberset.NumberSet{primary, primaryEcho, secondary, secondaryEcho} {
		if set == nil {
			continue
		}

		if set.HasDuplicates() {
			return Mismatch, fmt.Errorf("%s: %w", op, ErrDuplicateNumbers)
		}
	}

	if !slotsEqual(primary, primaryEcho) {
		return Mismatch, nil
	}

	if secondary != nil && !slotsEqual(secondary, secondaryEcho) {
		return Mismatch, nil
	}

	return Match, nil
}

func slotsEqual(original, echo *numberset.NumberSet) bool {
	if echo == nil || original.Size() != echo.Size() {
		return false
	}

	for i := 0; i < original.Size(); i++ {
		if normalize(original.Slot(i)) != normalize(echo.Slot(i)) {
			return false
		}
	}

	return true
}

// normalize maps a slot to its canonical decimal form so "07" and "7" agree.
// Unparseable slots keep their trimmed raw form and can only match themselves.
func normalize(slot string) string {
	trimmed := strings.TrimSpace(slot)

	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return trimmed
	}

	return strconv.Itoa(n)
}
