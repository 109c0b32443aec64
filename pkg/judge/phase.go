package judge

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase codes are the engine's compact turn identifiers: a season letter,
// a four digit year, and a phase-type letter, e.g. "F1904R" for the Fall
// 1904 Retreat phase.

const PhaseUnknown = "Unknown"

var seasonLetters = map[string]byte{
	"spring": 'S',
	"summer": 'U',
	"fall":   'F',
	"autumn": 'F',
	"winter": 'W',
}

var seasonNames = map[byte]string{
	'S': "Spring",
	'U': "Summer",
	'F': "Fall",
	'W': "Winter",
}

var phaseTypeLetters = map[string]byte{
	"movement":   'M',
	"moves":      'M',
	"retreat":    'R',
	"retreats":   'R',
	"adjustment": 'A',
	"builds":     'A',
	"build":      'A',
}

var phaseTypeNames = map[byte]string{
	'M': "Movement",
	'R': "Retreat",
	'A': "Adjustment",
}

// EncodePhase builds a phase code from a season name, a year, and a phase
// type name. The phase type may be empty, which means Movement. Returns
// PhaseUnknown when the season or type is unrecognized.
func EncodePhase(season string, year int, phaseType string) string {
	s, ok := seasonLetters[strings.ToLower(strings.TrimSpace(season))]
	if !ok || year < 0 || year > 9999 {
		return PhaseUnknown
	}
	t := byte('M')
	if pt := strings.ToLower(strings.TrimSpace(phaseType)); pt != "" {
		t, ok = phaseTypeLetters[pt]
		if !ok {
			return PhaseUnknown
		}
	}
	return fmt.Sprintf("%c%04d%c", s, year, t)
}

// PhaseFromDescription derives a phase code from a human description like
// "Fall 1904 Retreat" or "Spring 1901". Token order is free: the first
// recognized season, four-digit number, and phase-type word win. A missing
// phase type means Movement. Returns PhaseUnknown if no season+year pair
// can be found.
func PhaseFromDescription(desc string) string {
	var (
		season    string
		phaseType string
		year      = -1
	)
	for _, tok := range strings.Fields(desc) {
		tok = strings.Trim(tok, ".,:;()")
		low := strings.ToLower(tok)
		if _, ok := seasonLetters[low]; ok && season == "" {
			season = low
			continue
		}
		if _, ok := phaseTypeLetters[low]; ok && phaseType == "" {
			phaseType = low
			continue
		}
		if year < 0 && len(tok) == 4 {
			if y, err := strconv.Atoi(tok); err == nil {
				year = y
			}
		}
	}
	if season == "" || year < 0 {
		return PhaseUnknown
	}
	return EncodePhase(season, year, phaseType)
}

// IsPhaseCode reports whether s is a well-formed phase code.
func IsPhaseCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	if _, ok := seasonNames[s[0]]; !ok {
		return false
	}
	for i := 1; i < 5; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	_, ok := phaseTypeNames[s[5]]
	return ok
}

// DescribePhase renders a phase code back into a human description, e.g.
// "F1904R" becomes "Fall 1904 Retreat". Invalid codes come back unchanged.
func DescribePhase(code string) string {
	if !IsPhaseCode(code) {
		return code
	}
	return fmt.Sprintf("%s %s %s", seasonNames[code[0]], code[1:5], phaseTypeNames[code[5]])
}

// PhaseType returns the phase-type letter of a code ('M', 'R' or 'A'),
// or 0 for anything that is not a valid code.
func PhaseType(code string) byte {
	if !IsPhaseCode(code) {
		return 0
	}
	return code[5]
}
