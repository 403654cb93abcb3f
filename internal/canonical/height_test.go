package canonical

import "testing"

func TestParseHeight(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   any
		want Height
		ok   bool
	}{
		{"plain centimeters int", 198, 198, true},
		{"meters float", 1.98, 198, true},
		{"meters float rounds", 2.086, 209, true},
		{"centimeters float", 203.0, 203, true},
		{"feet and inches quoted", `6'8"`, 203, true},
		{"feet and inches dashed", "6-8", 203, true},
		{"feet and inches words", "6 ft 8 in", 203, true},
		{"centimeter string", "198", 198, true},
		{"centimeter string with unit", "198 cm", 198, true},
		{"meter string", "1.98", 198, true},
		{"meter string comma decimal", "2,08", 208, true},
		{"below range", 100, 0, false},
		{"above range", 231, 0, false},
		{"zero", 0, 0, false},
		{"negative", -190, 0, false},
		{"twelve inches invalid", "6'12\"", 0, false},
		{"garbage string", "tall", 0, false},
		{"empty string", "", 0, false},
		{"unsupported type", struct{}{}, 0, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseHeight(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("ParseHeight(%v) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}
