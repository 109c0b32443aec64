package transcript

import (
	"bufio"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/dipgate/judged/pkg/judge"
)

var (
	// "Deadline for Fall Retreat, 1904 is Wed Oct 13 2004 23:30 -0500"
	historyDeadlineRe = regexp.MustCompile(`^Deadline for (.+?),\s*(\d{4})\s+is\s+(.+)$`)

	// "History of nexus (Standard)"
	historyHeaderRe = regexp.MustCompile(`^History of (\S+)\s+\((\S+)\)`)

	// "Status as of Mon Jan  3 12:00:00 2005"
	statusTimestampRe = regexp.MustCompile(`^Status as of (.+)$`)

	// "Austria:   4 Supply centers,  4 Units:  Builds   0 units."
	supplyCenterRe = regexp.MustCompile(`^(\w+):\s+(\d+)\s+Supply center`)

	// "Austria has been eliminated."
	eliminationRe = regexp.MustCompile(`^(\w+) has been eliminated`)

	// "Austria: Army Budapest, Fleet Trieste." (no order verb on the line)
	unitPositionRe = regexp.MustCompile(`^(\w+):\s+((?:Army|Fleet)\s+.+?)\.?$`)

	// "Press from France to Germany:"
	pressHeaderRe = regexp.MustCompile(`^Press from (\S+) to (\S+):`)

	// "(*bounce*)" and "[dislodged]" adjudication annotations.
	resultMarkerRe = regexp.MustCompile(`\(\*[^)*]*\*\)|\[[^\]]+\]`)

	powerPrefixRe = regexp.MustCompile(`^(\w+):\s*(.*)$`)
)

// historyParser is the state machine for one ParseHistory call: a current
// phase cursor (nil until the first deadline header) and a press cursor
// with its accumulating buffer.
type historyParser struct {
	hist  *judge.GameHistory
	phase *judge.PhaseRecord

	inPress   bool
	pressFrom string
	pressTo   string
	pressBuf  []string
}

// ParseHistory recovers an ordered per-phase history from a turn-history
// transcript. It is a total function. A phase boundary is recognized only
// by a deadline header line; content before the first header is discarded
// except for the one-time game header and status timestamp.
func ParseHistory(gameName, text string) *judge.GameHistory {
	p := &historyParser{
		hist: &judge.GameHistory{GameName: gameName, Variant: "Standard"},
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line(strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		log.Printf("transcript: history scan for %q: %v", gameName, err)
	}

	p.flushPress()
	p.flushPhase()
	return p.hist
}

func (p *historyParser) line(raw string) {
	trimmed := strings.TrimSpace(raw)

	// Once inside a press body, only an unambiguous non-continuation line
	// ends it: message text may contain anything, including lines that look
	// like structural markers. Indented and blank lines accumulate verbatim.
	if p.inPress {
		if trimmed == "" || strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t") {
			p.pressBuf = append(p.pressBuf, raw)
			return
		}
		p.flushPress()
		// fall through: the terminating line is processed normally
	}

	if m := historyDeadlineRe.FindStringSubmatch(trimmed); m != nil {
		p.flushPress()
		p.flushPhase()
		code := judge.PhaseFromDescription(m[1] + " " + m[2])
		p.phase = judge.NewPhaseRecord(code)
		p.phase.Deadline = strings.TrimSpace(m[3])
		return
	}

	if p.phase == nil {
		// Before the first deadline header only the game header and the
		// status timestamp are interesting.
		if m := historyHeaderRe.FindStringSubmatch(trimmed); m != nil {
			p.hist.GameName = m[1]
			p.hist.Variant = m[2]
			return
		}
		if m := statusTimestampRe.FindStringSubmatch(trimmed); m != nil {
			p.hist.StatusTimestamp = strings.TrimSpace(m[1])
		}
		return
	}

	if m := pressHeaderRe.FindStringSubmatch(trimmed); m != nil {
		p.inPress = true
		p.pressFrom = m[1]
		p.pressTo = m[2]
		p.pressBuf = p.pressBuf[:0]
		return
	}

	if m := supplyCenterRe.FindStringSubmatch(trimmed); m != nil {
		if power := judge.CanonicalPower(m[1]); power != "" {
			n, _ := strconv.Atoi(m[2])
			p.phase.SupplyCenters[power] = n
			return
		}
	}

	if m := eliminationRe.FindStringSubmatch(trimmed); m != nil {
		if power := judge.CanonicalPower(m[1]); power != "" {
			for _, e := range p.phase.Eliminations {
				if e == power {
					return
				}
			}
			p.phase.Eliminations = append(p.phase.Eliminations, power)
			return
		}
	}

	// Adjudication annotations can share a line with the order they apply
	// to, so results extraction is not exclusive with order classification.
	if markers := resultMarkerRe.FindAllString(trimmed, -1); markers != nil {
		p.phase.Results = append(p.phase.Results, markers...)
	}

	if m := powerPrefixRe.FindStringSubmatch(trimmed); m != nil {
		power := judge.CanonicalPower(m[1])
		if power == "" {
			return
		}
		if typ, ok := ClassifyOrder(m[2]); ok {
			p.phase.Orders[power] = append(p.phase.Orders[power], judge.Order{Raw: trimmed, Type: typ})
			return
		}
		if um := unitPositionRe.FindStringSubmatch(trimmed); um != nil {
			p.addUnits(power, um[2])
		}
	}
}

// addUnits records unit positions from a comma-separated list like
// "Army Budapest, Fleet Trieste", deduplicating per power+type+location.
func (p *historyParser) addUnits(power, list string) {
	for _, part := range strings.Split(list, ",") {
		fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(part), "."))
		if len(fields) < 2 {
			continue
		}
		typ := fields[0]
		if typ != "Army" && typ != "Fleet" {
			continue
		}
		u := judge.Unit{Type: typ, Location: strings.Join(fields[1:], " ")}
		dup := false
		for _, have := range p.phase.Units[power] {
			if have == u {
				dup = true
				break
			}
		}
		if !dup {
			p.phase.Units[power] = append(p.phase.Units[power], u)
		}
	}
}

// flushPress closes an open diplomatic message into the current phase.
// Empty messages (header immediately followed by another header) are
// dropped; the body keeps internal whitespace but loses leading and
// trailing blank lines.
func (p *historyParser) flushPress() {
	if !p.inPress {
		return
	}
	p.inPress = false
	lines := p.pressBuf
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	msg := strings.Join(lines, "\n")
	p.pressBuf = p.pressBuf[:0]
	if strings.TrimSpace(msg) == "" || p.phase == nil {
		return
	}
	p.phase.Press = append(p.phase.Press, judge.PressMessage{
		From:    p.pressFrom,
		To:      p.pressTo,
		Message: msg,
	})
}

// flushPhase pushes the current phase record onto the history sequence.
func (p *historyParser) flushPhase() {
	if p.phase == nil {
		return
	}
	p.hist.Phases = append(p.hist.Phases, *p.phase)
	p.phase = nil
}
