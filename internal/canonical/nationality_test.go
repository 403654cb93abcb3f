package canonical

import "testing"

func TestParseNationality(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		code string
		ok   bool
	}{
		{"ISR", "ISR", true},
		{"israel", "ISR", true},
		{"Israeli", "ISR", true},
		{"ישראל", "ISR", true},
		{"United States", "USA", true},
		{"American", "USA", true},
		{"GRE", "GRC", true},
		{"Serbian", "SRB", true},
		{"סרביה", "SRB", true},
		{"Atlantis", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseNationality(tc.in)
		if ok != tc.ok || got.Code != tc.code {
			t.Errorf("ParseNationality(%q) = (%q, %v), want (%q, %v)", tc.in, got.Code, ok, tc.code, tc.ok)
		}
		if ok && got.Alias != tc.in {
			t.Errorf("ParseNationality(%q) alias = %q, want the matched input", tc.in, got.Alias)
		}
	}
}
