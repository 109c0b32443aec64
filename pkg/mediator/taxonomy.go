// Package mediator sits between operators and the adjudication engine: it
// decides what sign-on preamble a raw command needs, wraps command bodies
// into the mail-shaped input stream the engine consumes, and derives the
// set of currently sensible commands from a game's stored state.
package mediator

// Command taxonomy tables. These are consulted on every resolution and
// recommendation, so they are built once at process start and never
// mutated.

// signoffDirective terminates every command stream sent to the engine.
const signoffDirective = "SIGNOFF"

// Preamble marker initials understood by the engine's SIGNON verb.
const (
	markerMaster   = 'M'
	markerObserver = 'O'
	markerGeneric  = '?' // join/observe any available power
)

// noContextCommands run without any game context: account, info and
// global queries.
var noContextCommands = map[string]bool{
	"help":    true,
	"version": true,
	"manual":  true,
	"info":    true,
	"get":     true,
	"whois":   true,
	"map":     true,
	"flist":   true,
}

// gameScopedCommands optionally take a game name as their second token;
// when they do, the engine needs no sign-on preamble.
var gameScopedCommands = map[string]bool{
	"list":    true,
	"history": true,
	"summary": true,
	"whogame": true,
	"observe": true,
	"watch":   true,
}

// reservedWords can follow a game-scoped verb without being a game name.
var reservedWords = map[string]bool{
	"full":  true,
	"from":  true,
	"to":    true,
	"lines": true,
	"broad": true,
	"all":   true,
}

// suppressedCommands never appear in recommendations; both are handled by
// dedicated flows outside the engine round-trip.
var suppressedCommands = map[string]bool{
	"register": true,
	"signoff":  true,
}

// Recommendation vocabulary, grouped the way the categories are built.
var (
	infoCommands = []string{"list", "history", "summary", "whogame"}
	joinCommands = []string{"signon", "observe"}

	orderCommands = []string{"orders", "phase"}
	pressCommands = []string{"press", "broadcast"}
	playerToggles = []string{"set wait", "set nowait", "set absence", "resign", "withdraw"}
	drawCommands  = []string{"set draw", "set nodraw"}
	concedeCmds   = []string{"set concede", "set noconcede"}
	prefCommands  = []string{"set preference"}

	masterForming  = []string{"force begin", "set deadline", "set variant", "eject"}
	masterActive   = []string{"process", "pause", "eject", "set deadline", "set grace", "promote"}
	masterPaused   = []string{"resume", "terminate"}
	masterFinished = []string{"rollback", "unstart"}

	generalCommands = []string{"help", "version", "manual", "whois"}
)

// catchAllCommand is always present in the general category.
const catchAllCommand = "help"
