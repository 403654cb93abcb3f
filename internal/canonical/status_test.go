package canonical

import "testing"

func TestParseGameStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want GameStatus
		ok   bool
	}{
		{"FT", StatusFinal, true},
		{"final", StatusFinal, true},
		{"Ended", StatusFinal, true},
		{"הסתיים", StatusFinal, true},
		{"live", StatusLive, true},
		{"HT", StatusLive, true},
		{"Q3", StatusLive, true},
		{"scheduled", StatusScheduled, true},
		{"NS", StatusScheduled, true},
		{"postponed", StatusPostponed, true},
		{"נדחה", StatusPostponed, true},
		{"canceled", StatusCancelled, true},
		{"abandoned", StatusCancelled, true},
		{"weird", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseGameStatus(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseGameStatus(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
