package judge

import "testing"

func TestEncodePhase(t *testing.T) {
	cases := []struct {
		season    string
		year      int
		phaseType string
		want      string
	}{
		{"Fall", 1904, "Retreat", "F1904R"},
		{"Spring", 1901, "Movement", "S1901M"},
		{"Spring", 1901, "", "S1901M"},
		{"Winter", 1905, "Adjustment", "W1905A"},
		{"Winter", 1905, "Builds", "W1905A"},
		{"Summer", 1902, "Retreat", "U1902R"},
		{"Autumn", 1903, "Movement", "F1903M"},
		{"Monsoon", 1901, "Movement", PhaseUnknown},
		{"Fall", 1904, "Skirmish", PhaseUnknown},
		{"Fall", -1, "Movement", PhaseUnknown},
	}
	for _, c := range cases {
		if got := EncodePhase(c.season, c.year, c.phaseType); got != c.want {
			t.Errorf("EncodePhase(%q, %d, %q) = %q, want %q", c.season, c.year, c.phaseType, got, c.want)
		}
	}
}

func TestPhaseFromDescription(t *testing.T) {
	cases := []struct {
		desc string
		want string
	}{
		{"Fall 1904 Retreat", "F1904R"},
		{"Spring 1901", "S1901M"},
		{"Fall 1901", "F1901M"},
		{"Winter of 1905, Adjustment", "W1905A"},
		{"Retreat Fall 1904", "F1904R"},
		{"no phase here", PhaseUnknown},
		{"1904 but no season", PhaseUnknown},
		{"", PhaseUnknown},
	}
	for _, c := range cases {
		if got := PhaseFromDescription(c.desc); got != c.want {
			t.Errorf("PhaseFromDescription(%q) = %q, want %q", c.desc, got, c.want)
		}
	}
}

func TestIsPhaseCode(t *testing.T) {
	valid := []string{"S1901M", "F1904R", "W1905A", "U1902R"}
	for _, code := range valid {
		if !IsPhaseCode(code) {
			t.Errorf("IsPhaseCode(%q) = false, want true", code)
		}
	}
	invalid := []string{"", "FORMING", "X1901M", "S190M", "S1901Z", "s1901m", "S19011M"}
	for _, code := range invalid {
		if IsPhaseCode(code) {
			t.Errorf("IsPhaseCode(%q) = true, want false", code)
		}
	}
}

func TestDescribePhase(t *testing.T) {
	if got := DescribePhase("F1904R"); got != "Fall 1904 Retreat" {
		t.Errorf("DescribePhase(F1904R) = %q", got)
	}
	if got := DescribePhase("S1901M"); got != "Spring 1901 Movement" {
		t.Errorf("DescribePhase(S1901M) = %q", got)
	}
	// Invalid codes pass through unchanged.
	if got := DescribePhase("FORMING"); got != "FORMING" {
		t.Errorf("DescribePhase(FORMING) = %q", got)
	}
}

func TestPhaseType(t *testing.T) {
	if got := PhaseType("F1904R"); got != 'R' {
		t.Errorf("PhaseType(F1904R) = %c", got)
	}
	if got := PhaseType("garbage"); got != 0 {
		t.Errorf("PhaseType(garbage) = %d, want 0", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, code := range []string{"S1901M", "F1904R", "W1905A"} {
		if got := PhaseFromDescription(DescribePhase(code)); got != code {
			t.Errorf("round trip %q: got %q", code, got)
		}
	}
}
