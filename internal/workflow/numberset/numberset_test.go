package numberset

import (
	"errors"
	"testing"
)

func TestSetSlot(t *testing.T) {
	cases := []struct {
		name    string
		prefill map[int]string
		index   int
		raw     string
		wantErr error
		want    string
	}{
		{
			name:  "Success",
			index: 0,
			raw:   "12",
			want:  "12",
		},
		{
			name:  "TrimsWhitespace",
			index: 1,
			raw:   " 23 ",
			want:  "23",
		},
		{
			name:    "EmptyClearsSlot",
			prefill: map[int]string{2: "34"},
			index:   2,
			raw:     "",
			want:    "",
		},
		{
			name:    "RejectsNonNumeric",
			index:   0,
			raw:     "abc",
			wantErr: ErrNotANumber,
		},
		{
			name:    "RejectsDuplicate",
			prefill: map[int]string{0: "12"},
			index:   4,
			raw:     "12",
			wantErr: ErrDuplicateNumber,
		},
		{
			name:    "RejectsNormalizedDuplicate",
			prefill: map[int]string{0: "7"},
			index:   1,
			raw:     "07",
			wantErr: ErrDuplicateNumber,
		},
		{
			name:    "AllowsOverwritingSameSlot",
			prefill: map[int]string{3: "41"},
			index:   3,
			raw:     "41",
			want:    "41",
		},
		{
			name:    "RejectsIndexOutOfRange",
			index:   5,
			raw:     "1",
			wantErr: ErrIndexOutOfRange,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			set := New(5, 36)
			for i, v := range tc.prefill {
				if err := set.SetSlot(i, v); err != nil {
					t.Fatalf("prefill failed: %v", err)
				}
			}

			err := set.SetSlot(tc.index, tc.raw)

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("unexpected error, want: %v, got: %v", tc.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := set.Slot(tc.index); got != tc.want {
				t.Errorf("unexpected slot value, want: %q, got: %q", tc.want, got)
			}
		})
	}
}

func TestSetSlot_RejectedMutationLeavesSetUnchanged(t *testing.T) {
	set := New(5, 36)

	for i, v := range []string{"12", "23", "34", "41"} {
		if err := set.SetSlot(i, v); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	err := set.SetSlot(4, "12")
	if !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("expected duplicate rejection, got: %v", err)
	}

	if got := set.Slot(4); got != "" {
		t.Errorf("slot should stay empty after rejected mutation, got: %q", got)
	}

	if set.IsComplete() {
		t.Error("set must never be complete while a slot is empty")
	}
}

func TestIsComplete(t *testing.T) {
	cases := []struct {
		name  string
		slots []string
		want  bool
	}{
		{
			name:  "AllFilled",
			slots: []string{"12", "23", "34", "41", "7"},
			want:  true,
		},
		{
			name:  "OneEmpty",
			slots: []string{"12", "23", "", "41", "7"},
			want:  false,
		},
		{
			name:  "AllEmpty",
			slots: []string{"", "", "", "", ""},
			want:  false,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			set := New(5, 36)
			for i, v := range tc.slots {
				if v == "" {
					continue
				}
				if err := set.SetSlot(i, v); err != nil {
					t.Fatalf("setup failed: %v", err)
				}
			}

			if got := set.IsComplete(); got != tc.want {
				t.Errorf("unexpected result, want: %v, got: %v", tc.want, got)
			}
		})
	}
}

func TestValues(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		set := New(5, 36)
		for i, v := range []string{"12", "23", "34", "41", "7"} {
			if err := set.SetSlot(i, v); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
		}

		values, err := set.Values()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []int{12, 23, 34, 41, 7}
		for i, v := range want {
			if values[i] != v {
				t.Errorf("unexpected value at %d, want: %d, got: %d", i, v, values[i])
			}
		}
	})

	t.Run("Incomplete", func(t *testing.T) {
		set := New(5, 36)

		if _, err := set.Values(); !errors.Is(err, ErrIncomplete) {
			t.Errorf("unexpected error, want: %v, got: %v", ErrIncomplete, err)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		set := New(2, 36)
		if err := set.SetSlot(0, "12"); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if err := set.SetSlot(1, "37"); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		if _, err := set.Values(); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("unexpected error, want: %v, got: %v", ErrOutOfRange, err)
		}
	})

	t.Run("ZeroIsOutOfRange", func(t *testing.T) {
		set := New(1, 36)
		if err := set.SetSlot(0, "0"); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		if _, err := set.Values(); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("unexpected error, want: %v, got: %v", ErrOutOfRange, err)
		}
	})
}
