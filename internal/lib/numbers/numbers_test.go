package numbers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCSV(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  []int
	}{
		{
			name:  "Success",
			value: "12,23,34,41,7",
			want:  []int{12, 23, 34, 41, 7},
		},
		{
			name:  "SpacesAndLeadingZeros",
			value: " 09, 16 ,28",
			want:  []int{9, 16, 28},
		},
		{
			name:  "DropsJunkFragments",
			value: "5,,x,17, ,8a,21",
			want:  []int{5, 17, 21},
		},
		{
			name:  "Empty",
			value: "",
			want:  nil,
		},
		{
			name:  "OnlyJunk",
			value: "a, ,b",
			want:  nil,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ParseCSV(tc.value)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJoinCSV(t *testing.T) {
	cases := []struct {
		name   string
		values []int
		want   string
	}{
		{
			name:   "Success",
			values: []int{12, 23, 34},
			want:   "12,23,34",
		},
		{
			name:   "Empty",
			values: nil,
			want:   "",
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := JoinCSV(tc.values)
			if got != tc.want {
				t.Errorf("unexpected result, want: %q, got: %q", tc.want, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "Success",
			raw:  "12",
			want: "12",
			ok:   true,
		},
		{
			name: "LeadingZero",
			raw:  "07",
			want: "7",
			ok:   true,
		},
		{
			name: "Whitespace",
			raw:  "  23 ",
			want: "23",
			ok:   true,
		},
		{
			name: "Empty",
			raw:  "",
			want: "",
			ok:   false,
		},
		{
			name: "NotANumber",
			raw:  "12a",
			want: "",
			ok:   false,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Normalize(tc.raw)
			if got != tc.want || ok != tc.ok {
				t.Errorf("unexpected result, want: (%q, %v), got: (%q, %v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}
