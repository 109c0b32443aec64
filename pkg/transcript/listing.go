// Package transcript converts the adjudication engine's free-form plaintext
// reports into the normalized model in pkg/judge. The input is prose, not a
// protocol: headers appear in varying order or not at all, so each parser
// runs a fixed sequence of line heuristics with explicit precedence and
// degrades to defaults on anything it does not recognize. Parsing never
// fails.
package transcript

import (
	"bufio"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/dipgate/judged/pkg/judge"
)

// section is the listing parser's "currently reading" cursor. Roster and
// settings sections are mutually exclusive by construction.
type section int

const (
	secNone section = iota
	secRoster
	secSettings
)

var (
	// "F1904M  Deadline: Wed Oct 13 2004 23:30 -0500"
	// The first column is a phase code, or the literal FORMING for games
	// that have not started.
	deadlineLineRe = regexp.MustCompile(`^(\S+)\s+Deadline:\s*(.*)$`)

	// "Status of the Movement phase for Fall of 1904."
	narrativeStatusRe = regexp.MustCompile(`^Status of the (Movement|Retreat|Adjustment) phase for (\w+) of (\d{4})\.`)

	// "Game status: Active"
	explicitStatusRe = regexp.MustCompile(`^Game status:\s*(\S+)`)

	// "Variant: Standard Gunboat"
	variantLineRe = regexp.MustCompile(`^Variant:\s+(\S+)(.*)$`)

	// "Austria     2  alice@example.com   Playing   Alice"
	rosterPlayerRe = regexp.MustCompile(`^(\w+)\s+(\d+)\s+(\S+@\S+)\s*(.*)$`)

	// "Master      0  gm@example.com"
	rosterMasterRe = regexp.MustCompile(`^(?:Master|Moderator)\s+\d+\s+(\S+@\S+)`)

	// "Observer: watcher@example.com"
	rosterObserverRe = regexp.MustCompile(`^Observer:\s*(\S+@\S+)`)

	pressModeRe = regexp.MustCompile(`(?i)\bpress:\s*(\w+)`)
)

const rosterHeaderPrefix = "The following players are signed up for game"

func isSettingsHeader(line string) bool {
	low := strings.ToLower(line)
	if strings.HasPrefix(low, "game settings:") {
		return true
	}
	return strings.Contains(low, "parameters for") && strings.Contains(low, "are as follows")
}

// ParseListing recovers a GameState from a game-listing transcript. It is a
// total function: on completely unrecognized input it returns a default
// state with status Unknown. The transcript and parse time are recorded as
// provenance.
func ParseListing(gameName, text string) *judge.GameState {
	gs := judge.NewGameState(gameName)
	gs.RawTranscript = text
	gs.LastUpdated = time.Now()

	sec := secNone
	seenMasters := map[string]bool{}
	seenObservers := map[string]bool{}
	seenPowers := map[string]bool{}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)

		// Section headers take priority over everything else.
		if strings.HasPrefix(trimmed, rosterHeaderPrefix) {
			sec = secRoster
			continue
		}
		if isSettingsHeader(trimmed) {
			sec = secSettings
			continue
		}

		if sec == secRoster {
			if parseRosterLine(gs, trimmed, seenMasters, seenObservers, seenPowers) {
				continue
			}
			// First non-roster line closes the section; it still runs
			// through the general rules below.
			sec = secNone
		}

		if sec == secSettings {
			if trimmed == "" || narrativeStatusRe.MatchString(trimmed) {
				sec = secNone
				// A narrative status line still needs the general rules.
				if trimmed == "" {
					continue
				}
			} else {
				scanSettingsLine(&gs.Settings, trimmed)
				continue
			}
		}

		// Rule order matters: deadline before narrative before explicit
		// status, so the most specific observation wins for the fields it
		// sets.
		if m := deadlineLineRe.FindStringSubmatch(trimmed); m != nil {
			phase := m[1]
			if judge.IsPhaseCode(phase) || strings.EqualFold(phase, "forming") {
				gs.CurrentPhase = phase
				gs.NextDeadline = strings.TrimSpace(m[2])
				if judge.IsPhaseCode(phase) &&
					(gs.Status == judge.StatusUnknown || gs.Status == judge.StatusForming) {
					gs.Status = judge.StatusActive
				}
				continue
			}
		}

		if m := narrativeStatusRe.FindStringSubmatch(trimmed); m != nil {
			if code := judge.PhaseFromDescription(m[2] + " " + m[3] + " " + m[1]); code != judge.PhaseUnknown {
				gs.CurrentPhase = code
			}
			gs.Status = judge.StatusActive
			continue
		}

		if m := explicitStatusRe.FindStringSubmatch(trimmed); m != nil {
			st := judge.ParseStatus(m[1])
			// A generic "Active" restatement must not override what the
			// deadline or narrative rules already established.
			if !(st == judge.StatusActive && gs.Status != judge.StatusUnknown) {
				gs.Status = st
			}
			continue
		}

		if m := variantLineRe.FindStringSubmatch(trimmed); m != nil {
			gs.Variant = m[1]
			gs.Options = gs.Options[:0]
			// The variant line is authoritative for NMR: absence of the
			// token means the game is NoNMR.
			gs.Settings.NMR = false
			for _, opt := range strings.Fields(m[2]) {
				gs.Options = append(gs.Options, opt)
				applyOption(&gs.Settings, opt)
			}
			continue
		}
	}
	if err := sc.Err(); err != nil {
		log.Printf("transcript: listing scan for %q: %v", gameName, err)
	}

	// Post-pass defaulting: a captured phase with no status observation
	// still tells us where the game is in its lifecycle.
	if gs.Status == judge.StatusUnknown && gs.CurrentPhase != judge.PhaseUnknown {
		if strings.EqualFold(gs.CurrentPhase, "forming") {
			gs.Status = judge.StatusForming
		} else {
			gs.Status = judge.StatusActive
		}
	}
	return gs
}

// parseRosterLine tries the three roster patterns in order: player, master,
// observer. It reports whether the line belonged to the roster; anything
// else closes the section.
func parseRosterLine(gs *judge.GameState, line string, masters, observers, powers map[string]bool) bool {
	if line == "" || isSettingsHeader(line) ||
		narrativeStatusRe.MatchString(line) || deadlineLineRe.MatchString(line) ||
		strings.HasPrefix(line, "Status of the") {
		return false
	}

	if m := rosterPlayerRe.FindStringSubmatch(line); m != nil {
		if power := judge.CanonicalPower(m[1]); power != "" {
			if powers[power] {
				return true // at most one record per power
			}
			powers[power] = true
			p := judge.Player{Power: power, Email: m[3], Status: "Playing"}
			rest := strings.Fields(m[4])
			if len(rest) > 0 {
				if judge.InactivePlayerStatus(rest[0]) || strings.EqualFold(rest[0], "playing") {
					p.Status = rest[0]
					rest = rest[1:]
				}
				p.Name = strings.Join(rest, " ")
			}
			gs.Players = append(gs.Players, p)
			return true
		}
	}

	if m := rosterMasterRe.FindStringSubmatch(line); m != nil {
		if !masters[strings.ToLower(m[1])] {
			masters[strings.ToLower(m[1])] = true
			gs.Masters = append(gs.Masters, m[1])
		}
		return true
	}

	if m := rosterObserverRe.FindStringSubmatch(line); m != nil {
		if !observers[strings.ToLower(m[1])] {
			observers[strings.ToLower(m[1])] = true
			gs.Observers = append(gs.Observers, m[1])
		}
		return true
	}

	return false
}

// applyOption maps a variant option token onto its implied settings.
func applyOption(s *judge.Settings, opt string) {
	switch strings.ToLower(opt) {
	case "gunboat":
		s.Gunboat = true
	case "nmr":
		s.NMR = true
	case "chaos":
		s.Chaos = true
	}
}

// scanSettingsLine scans one settings-section line for every known flag.
// Matching is non-exclusive: several flags can be set by the same line.
// This is deliberately substring-based, matching the engine's loose output;
// a settings line that merely mentions a keyword (say, a game named after
// "chaos") will be misread. The section-close rules keep that bounded.
func scanSettingsLine(s *judge.Settings, line string) {
	low := strings.ToLower(line)

	if m := pressModeRe.FindStringSubmatch(line); m != nil && !strings.Contains(low, "observer") {
		switch strings.ToLower(m[1]) {
		case "white":
			s.Press = "White"
		case "grey", "gray":
			s.Press = "Grey"
		case "none", "no":
			s.Press = "None"
		}
	}

	switch {
	case strings.Contains(low, "nodias"), strings.Contains(low, "no dias"):
		s.DIAS = false
	case strings.Contains(low, "dias"):
		s.DIAS = true
	}

	switch {
	case strings.Contains(low, "nonmr"), strings.Contains(low, "no nmr"):
		s.NMR = false
	case strings.Contains(low, "nmr"):
		s.NMR = true
	}

	switch {
	case strings.Contains(low, "noconcession"), strings.Contains(low, "no concession"):
		s.Concessions = false
	case strings.Contains(low, "concession"):
		s.Concessions = true
	}

	if strings.Contains(low, "gunboat") {
		s.Gunboat = true
	}
	if strings.Contains(low, "chaos") {
		s.Chaos = true
	}

	switch {
	case strings.Contains(low, "no partial press"):
		s.PartialPress = false
	case strings.Contains(low, "partial press"):
		s.PartialPress = true
	}

	if strings.Contains(low, "observer") && strings.Contains(low, "press") {
		switch {
		case strings.Contains(low, "none"), strings.Contains(low, "no press"):
			s.ObserverPress = "none"
		case strings.Contains(low, "white"):
			s.ObserverPress = "white"
		default:
			s.ObserverPress = "any"
		}
	}

	if strings.Contains(low, "strict convoy") {
		s.StrictConvoy = true
	}
	if strings.Contains(low, "strict wait") {
		s.StrictWait = true
	}
	if strings.Contains(low, "strict grace") {
		s.StrictGrace = true
	}
}
