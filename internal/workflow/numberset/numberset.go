package numberset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrIndexOutOfRange = errors.New("slot index out of range")
	ErrNotANumber      = errors.New("value is not a number")
	ErrDuplicateNumber = errors.New("number already entered in another slot")
	ErrIncomplete      = errors.New("number set is incomplete")
	ErrOutOfRange      = errors.New("number is outside the allowed range")
)

// NumberSet is an ordered, fixed-size collection of numeric input slots for
// one category of draw numbers. Slots hold raw text while entry is in
// progress; an empty slot is a valid intermediate state.
type NumberSet struct {
	slots []string
	bound int
}

func New(size, bound int) *NumberSet {
	return &NumberSet{
		slots: make([]string, size),
		bound: bound,
	}
}

// FromSlots restores a set from previously captured raw slots. The slots are
// taken as-is and bypass SetSlot's checks; callers must run Values before
// treating the set as finalized.
func FromSlots(slots []string, bound int) *NumberSet {
	copied := make([]string, len(slots))
	copy(copied, slots)

	return &NumberSet{
		slots: copied,
		bound: bound,
	}
}

func (s *NumberSet) Size() int {
	return len(s.slots)
}

func (s *NumberSet) Bound() int {
	return s.bound
}

func (s *NumberSet) Slot(index int) string {
	if index < 0 || index >= len(s.slots) {
		return ""
	}

	return s.slots[index]
}

func (s *NumberSet) Slots() []string {
	out := make([]string, len(s.slots))
	copy(out, s.slots)

	return out
}

// SetSlot stores trimmed raw input into a slot. An empty value clears the
// slot. A non-numeric value or a value that normalizes to the same integer as
// another filled slot rejects the mutation and leaves the set unchanged.
// Range membership is enforced by Values, not here.
func (s *NumberSet) SetSlot(index int, raw string) error {
	const op = "numberset.SetSlot"

	if index < 0 || index >= len(s.slots) {
		return fmt.Errorf("%s: %w", op, ErrIndexOutOfRange)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		s.slots[index] = ""

		return nil
	}

	candidate, err := strconv.Atoi(trimmed)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrNotANumber)
	}

	for i, slot := range s.slots {
		if i == index || slot == "" {
			continue
		}

		other, err := strconv.Atoi(strings.TrimSpace(slot))
		if err != nil {
			continue
		}

		if other == candidate {
			return fmt.Errorf("%s: %w", op, ErrDuplicateNumber)
		}
	}

	s.slots[index] = trimmed

	return nil
}

// IsComplete reports whether every slot is filled with a parseable integer.
// Duplicate-freedom and range membership are re-checked by Values.
func (s *NumberSet) IsComplete() bool {
	for _, slot := range s.slots {
		if strings.TrimSpace(slot) == "" {
			return false
		}

		if _, err := strconv.Atoi(strings.TrimSpace(slot)); err != nil {
			return false
		}
	}

	return true
}

// Values finalizes the set into integers. It re-verifies completeness,
// duplicate-freedom and range membership, since slots could in principle be
// populated through a path that bypasses SetSlot.
func (s *NumberSet) Values() ([]int, error) {
	const op = "numberset.Values"

	values := make([]int, 0, len(s.slots))
	seen := make(map[int]bool, len(s.slots))

	for _, slot := range s.slots {
		trimmed := strings.TrimSpace(slot)
		if trimmed == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrIncomplete)
		}

		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, ErrIncomplete)
		}

		if n < 1 || n > s.bound {
			return nil, fmt.Errorf("%s: %w", op, ErrOutOfRange)
		}

		if seen[n] {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateNumber)
		}
		seen[n] = true

		values = append(values, n)
	}

	return values, nil
}

// HasDuplicates reports whether two filled slots normalize to the same
// integer. Unparseable and empty slots are skipped.
func (s *NumberSet) HasDuplicates() bool {
	seen := make(map[int]bool, len(s.slots))

	for _, slot := range s.slots {
		trimmed := strings.TrimSpace(slot)
		if trimmed == "" {
			continue
		}

		n, err := strconv.Atoi(trimmed)
		if err != nil {
			continue
		}

		if seen[n] {
			return true
		}
		seen[n] = true
	}

	return false
}
