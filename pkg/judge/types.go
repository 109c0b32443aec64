// Package judge holds the normalized data model recovered from the
// adjudication engine's plaintext output: game listings, turn histories,
// and the role/phase vocabulary shared by the parsers, the command
// resolver and the recommendation engine.
package judge

import (
	"regexp"
	"strings"
	"time"
)

// Status is the lifecycle stage of a game as last observed in a listing.
type Status int

const (
	StatusUnknown Status = iota
	StatusForming
	StatusActive
	StatusPaused
	StatusFinished
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusForming:
		return "Forming"
	case StatusActive:
		return "Active"
	case StatusPaused:
		return "Paused"
	case StatusFinished:
		return "Finished"
	case StatusTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// ParseStatus maps a free-text status word onto the enum. Unrecognized
// text yields StatusUnknown.
func ParseStatus(text string) Status {
	switch {
	case equalFold(text, "forming"):
		return StatusForming
	case equalFold(text, "active"):
		return StatusActive
	case equalFold(text, "paused"), equalFold(text, "suspended"):
		return StatusPaused
	case equalFold(text, "finished"), equalFold(text, "completed"):
		return StatusFinished
	case equalFold(text, "terminated"), equalFold(text, "abandoned"):
		return StatusTerminated
	default:
		return StatusUnknown
	}
}

// Player is one roster entry: a power and whoever holds it.
type Player struct {
	Power  string
	Email  string
	Status string // "Playing", "CD", "Resigned", "Abandoned", "Eliminated"
	Name   string
}

// Settings are the per-game rule flags recovered from the listing's
// parameter section. Zero value is NOT the default; use DefaultSettings.
type Settings struct {
	Press         string // "White", "Grey", "None"
	PartialPress  bool
	ObserverPress string // "any", "white", "none"
	NMR           bool
	DIAS          bool
	Concessions   bool
	Gunboat       bool
	Chaos         bool
	StrictConvoy  bool
	StrictWait    bool
	StrictGrace   bool
}

// DefaultSettings returns the engine's documented defaults for flags the
// listing never mentioned.
func DefaultSettings() Settings {
	return Settings{
		Press:         "White",
		PartialPress:  true,
		ObserverPress: "any",
		NMR:           false,
		DIAS:          true,
		Concessions:   true,
	}
}

// GameState is the normalized record for one game, keyed by its short name.
// It is overwritten wholesale on every successful listing parse; the parser
// records the latest observed status and leaves lifecycle reconciliation to
// the caller.
type GameState struct {
	Name         string
	Status       Status
	Variant      string
	Options      []string
	CurrentPhase string // phase code, "FORMING", or "Unknown"
	NextDeadline string
	Masters      []string
	Observers    []string
	Players      []Player
	Settings     Settings

	// Provenance.
	RawTranscript string
	LastUpdated   time.Time
}

// NewGameState returns a GameState with all defaults for the named game.
func NewGameState(name string) *GameState {
	return &GameState{
		Name:         name,
		Status:       StatusUnknown,
		Variant:      "Standard",
		CurrentPhase: "Unknown",
		Settings:     DefaultSettings(),
	}
}

// PlayerFor returns the roster entry for the given email, if any.
func (gs *GameState) PlayerFor(email string) (Player, bool) {
	for _, p := range gs.Players {
		if equalFold(p.Email, email) {
			return p, true
		}
	}
	return Player{}, false
}

// IsMaster reports whether the email is one of the game's masters.
func (gs *GameState) IsMaster(email string) bool {
	for _, m := range gs.Masters {
		if equalFold(m, email) {
			return true
		}
	}
	return false
}

// IsObserver reports whether the email is a registered observer.
func (gs *GameState) IsObserver(email string) bool {
	for _, o := range gs.Observers {
		if equalFold(o, email) {
			return true
		}
	}
	return false
}

// Unit is a single piece on the board.
type Unit struct {
	Type     string // "Army" or "Fleet"
	Location string
}

// OrderType classifies a recognized order line. Deeper move semantics are
// deliberately not modeled; orders are kept as raw text plus a class.
type OrderType string

const (
	OrderHold         OrderType = "hold"
	OrderMove         OrderType = "move"
	OrderSupportHold  OrderType = "support-hold"
	OrderSupportMove  OrderType = "support-move"
	OrderConvoy       OrderType = "convoy"
	OrderRetreat      OrderType = "retreat"
	OrderDisband      OrderType = "disband"
	OrderBuild        OrderType = "build"
	OrderWaiveBuild   OrderType = "waive-build"
	OrderRemove       OrderType = "remove"
	OrderWaiveRemoval OrderType = "waive-removal"
)

// Order is one submitted order as it appeared in the history transcript.
type Order struct {
	Raw  string
	Type OrderType
}

// PressMessage is one diplomatic message captured from a history transcript.
type PressMessage struct {
	From    string
	To      string
	Message string
}

// PhaseRecord is the snapshot of a single turn recovered from a history
// transcript.
type PhaseRecord struct {
	PhaseCode     string
	Deadline      string
	SupplyCenters map[string]int
	Eliminations  []string
	Units         map[string][]Unit
	Orders        map[string][]Order
	Results       []string
	Press         []PressMessage
}

// NewPhaseRecord returns an empty phase snapshot for the given code.
func NewPhaseRecord(code string) *PhaseRecord {
	return &PhaseRecord{
		PhaseCode:     code,
		SupplyCenters: make(map[string]int),
		Units:         make(map[string][]Unit),
		Orders:        make(map[string][]Order),
	}
}

// GameHistory is the full parsed turn history for one game. It is produced
// per query and not persisted by this subsystem.
type GameHistory struct {
	GameName        string
	Variant         string
	StatusTimestamp string
	Phases          []PhaseRecord
}

// VariantPowers maps a variant name to its power set. Lookup is
// case-insensitive via PowersFor.
var VariantPowers = map[string][]string{
	"Standard": {
		"Austria", "England", "France", "Germany", "Italy", "Russia", "Turkey",
	},
	"Youngstown": {
		"Austria", "China", "England", "France", "Germany",
		"India", "Italy", "Japan", "Russia", "Turkey",
	},
}

// PowersFor returns the power list for a variant, falling back to Standard.
func PowersFor(variant string) []string {
	for name, powers := range VariantPowers {
		if equalFold(name, variant) {
			return powers
		}
	}
	return VariantPowers["Standard"]
}

// KnownPower reports whether the word names a power in any known variant.
func KnownPower(word string) bool {
	for _, powers := range VariantPowers {
		for _, p := range powers {
			if equalFold(p, word) {
				return true
			}
		}
	}
	return false
}

// CanonicalPower returns the canonical capitalization of a power name, or
// "" if the word is not a power.
func CanonicalPower(word string) string {
	for _, powers := range VariantPowers {
		for _, p := range powers {
			if equalFold(p, word) {
				return p
			}
		}
	}
	return ""
}

var gameNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]{0,7}$`)

// ValidGameName reports whether s is a legal short game name: 1-8 ASCII
// letters and digits, starting with a letter. The engine rejects anything
// else, so malformed names are rejected eagerly wherever one is taken as an
// explicit parameter.
func ValidGameName(s string) bool {
	return gameNameRe.MatchString(s)
}

func equalFold(a, b string) bool { return strings.EqualFold(a, b) }
