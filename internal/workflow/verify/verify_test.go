package verify

import (
	"errors"
	"testing"

	"resultpost/internal/workflow/numberset"
)

func fill(t *testing.T, bound int, values ...string) *numberset.NumberSet {
	t.Helper()

	set := numberset.New(len(values), bound)
	for i, v := range values {
		if err := set.SetSlot(i, v); err != nil {
			t.Fatalf("failed to fill slot %d: %v", i, err)
		}
	}

	return set
}

func TestSets(t *testing.T) {
	cases := []struct {
		name          string
		primary       []string
		primaryEcho   []string
		secondary     []string
		secondaryEcho []string
		want          Outcome
	}{
		{
			name:        "PrimaryOnlyMatch",
			primary:     []string{"12", "23", "34", "41", "7"},
			primaryEcho: []string{"12", "23", "34", "41", "7"},
			want:        Match,
		},
		{
			name:          "BothCategoriesMatch",
			primary:       []string{"12", "23", "34", "41", "7"},
			primaryEcho:   []string{"12", "23", "34", "41", "7"},
			secondary:     []string{"9", "16", "28", "33", "45"},
			secondaryEcho: []string{"9", "16", "28", "33", "45"},
			want:          Match,
		},
		{
			name:        "NormalizedFormsMatch",
			primary:     []string{"7", "16"},
			primaryEcho: []string{"07", " 16 "},
			want:        Match,
		},
		{
			name:        "SinglePositionalDifference",
			primary:     []string{"12", "23", "34", "41", "7"},
			primaryEcho: []string{"12", "23", "34", "41", "8"},
			want:        Mismatch,
		},
		{
			name:          "SwappedSecondaryIsMismatch",
			primary:       []string{"12", "23", "34", "41", "7"},
			primaryEcho:   []string{"12", "23", "34", "41", "7"},
			secondary:     []string{"9", "16", "28", "33", "45"},
			secondaryEcho: []string{"9", "16", "28", "45", "33"},
			want:          Mismatch,
		},
		{
			name:        "SameMultisetDifferentOrder",
			primary:     []string{"1", "2", "3"},
			primaryEcho: []string{"3", "2", "1"},
			want:        Mismatch,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			primary := fill(t, 36, tc.primary...)
			primaryEcho := fill(t, 36, tc.primaryEcho...)

			var secondary, secondaryEcho *numberset.NumberSet
			if tc.secondary != nil {
				secondary = fill(t, 90, tc.secondary...)
				secondaryEcho = fill(t, 90, tc.secondaryEcho...)
			}

			got, err := Sets(primary, primaryEcho, secondary, secondaryEcho)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tc.want {
				t.Errorf("unexpected outcome, want: %v, got: %v", tc.want, got)
			}
		})
	}
}

func TestSets_DuplicatePreCheck(t *testing.T) {
	// Duplicates cannot be built through SetSlot; FromSlots models input that
	// arrived through another path.
	dup := numberset.FromSlots([]string{"12", "07", "7"}, 36)
	echo := fill(t, 36, "12", "7", "8")

	_, err := Sets(dup, echo, nil, nil)
	if !errors.Is(err, ErrDuplicateNumbers) {
		t.Fatalf("unexpected error, want: %v, got: %v", ErrDuplicateNumbers, err)
	}

	// The pre-check also covers the echo sets.
	clean := fill(t, 36, "12", "7", "8")
	dupEcho := numberset.FromSlots([]string{"12", "7", "7"}, 36)

	_, err = Sets(clean, dupEcho, nil, nil)
	if !errors.Is(err, ErrDuplicateNumbers) {
		t.Fatalf("unexpected error, want: %v, got: %v", ErrDuplicateNumbers, err)
	}
}
