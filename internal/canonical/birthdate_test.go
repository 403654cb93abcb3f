package canonical

import (
	"testing"
	"time"
)

func TestParseBirthdate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want Birthdate
		ok   bool
	}{
		{"iso", "1993-07-19", Birthdate{1993, time.July, 19}, true},
		{"slash day first unambiguous", "19/07/1993", Birthdate{1993, time.July, 19}, true},
		{"dash day first unambiguous", "19-07-1993", Birthdate{1993, time.July, 19}, true},
		{"ambiguous defaults to day first", "03/05/1998", Birthdate{1998, time.May, 3}, true},
		{"month first forced by second component", "5/15/1995", Birthdate{1995, time.May, 15}, true},
		{"long form day first", "15 May 1995", Birthdate{1995, time.May, 15}, true},
		{"long form month first", "May 15, 1995", Birthdate{1995, time.May, 15}, true},
		{"long form abbreviated", "15 Jul 1993", Birthdate{1993, time.July, 15}, true},
		{"impossible date", "31/02/1995", Birthdate{}, false},
		{"both components too large", "14/13/1995", Birthdate{}, false},
		{"two digit year", "19/07/93", Birthdate{}, false},
		{"garbage", "soon", Birthdate{}, false},
		{"empty", "", Birthdate{}, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseBirthdate(tc.in)
			if ok != tc.ok {
				t.Fatalf("ParseBirthdate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Fatalf("ParseBirthdate(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestBirthdateEqual(t *testing.T) {
	t.Parallel()

	a := Birthdate{1993, time.July, 19}
	if !a.Equal(Birthdate{1993, time.July, 19}) {
		t.Fatal("identical dates must be equal")
	}
	if a.Equal(Birthdate{1993, time.July, 20}) {
		t.Fatal("different days must not be equal")
	}
	if got := a.String(); got != "1993-07-19" {
		t.Fatalf("String() = %q", got)
	}
}
