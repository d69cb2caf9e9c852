package snapshot

import (
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		name     string
		gameName string
		resultID int64
		drawDate time.Time
		want     string
	}{
		{
			name:     "WithResultID",
			gameName: "STAR LOTTO",
			resultID: 42,
			want:     "STAR LOTTO-42.png",
		},
		{
			name:     "FallsBackToDate",
			gameName: "MONDAY SPECIAL",
			drawDate: time.Date(2025, 3, 1, 19, 15, 0, 0, time.UTC),
			want:     "MONDAY SPECIAL-2025-03-01.png",
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Filename(tc.gameName, tc.resultID, tc.drawDate)
			if got != tc.want {
				t.Errorf("unexpected filename, want: %q, got: %q", tc.want, got)
			}
		})
	}
}
