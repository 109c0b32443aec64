package mediator

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dipgate/judged/pkg/judge"
)

// StateLookup is the injected accessor to stored game state. It returns
// (nil, false, nil) when the game is unknown; a non-nil error means the
// backing store could not be queried at all.
type StateLookup func(gameName string) (*judge.GameState, bool, error)

var (
	// ErrMissingContext means the command needs a sign-on preamble but the
	// caller supplied no target game or password. Recoverable: the caller
	// must collect them and retry.
	ErrMissingContext = errors.New("mediator: command requires a game and password")

	// ErrBadGameName means an explicitly supplied game name is not a legal
	// short name.
	ErrBadGameName = errors.New("mediator: malformed game name")
)

// IsMissingContext reports whether err is the recoverable missing-context
// condition (as opposed to a backing-store failure).
func IsMissingContext(err error) bool {
	return errors.Is(err, ErrMissingContext)
}

// CommandContext is the per-invocation resolution result: whether the raw
// command needs an authentication preamble, the synthesized preamble, and
// the game name that actually applies (which may have been extracted from
// the command itself).
type CommandContext struct {
	RequiresPreamble  bool
	Preamble          string
	EffectiveGameName string
}

// Request carries one command resolution. Password and Variant are
// optional; Variant, when set, forces the join-with-options sign-on form
// regardless of any existing role.
type Request struct {
	Identity string
	Command  string
	Game     string
	Password string
	Variant  string
}

// Resolve decides what authentication preamble, if any, must precede the
// raw command before it is legal engine input. It performs no writes; a
// failed resolution leaves no state behind.
func Resolve(req Request, lookup StateLookup) (*CommandContext, error) {
	if req.Game != "" && !judge.ValidGameName(req.Game) {
		return nil, fmt.Errorf("%w: %q", ErrBadGameName, req.Game)
	}

	tokens := strings.Fields(req.Command)
	verb := ""
	if len(tokens) > 0 {
		verb = strings.ToLower(tokens[0])
	}

	// The engine's own sign-on establishes its context; both the one-token
	// and two-token spellings count.
	if verb == "signon" ||
		(verb == "sign" && len(tokens) > 1 && strings.EqualFold(tokens[1], "on")) {
		return &CommandContext{EffectiveGameName: req.Game}, nil
	}

	if noContextCommands[verb] {
		return &CommandContext{EffectiveGameName: req.Game}, nil
	}

	if gameScopedCommands[verb] && len(tokens) > 1 {
		arg := tokens[1]
		if judge.ValidGameName(arg) && !reservedWords[strings.ToLower(arg)] {
			if req.Game != "" && !strings.EqualFold(req.Game, arg) {
				log.Printf("mediator: %s names game %q inline, overriding target %q", verb, arg, req.Game)
			}
			return &CommandContext{EffectiveGameName: arg}, nil
		}
	}

	// Everything else needs a sign-on, but only when a target game is in
	// play at all; without one the command passes through untouched.
	if req.Game == "" {
		return &CommandContext{}, nil
	}
	if req.Password == "" {
		return nil, ErrMissingContext
	}

	preamble, err := signOn(req, lookup)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		RequiresPreamble:  true,
		Preamble:          preamble,
		EffectiveGameName: req.Game,
	}, nil
}

// signOn synthesizes the SIGNON line for the request. A variant override
// always takes the join-with-options form; otherwise the stored roster
// decides the marker: the player's power initial, the master marker, the
// observer marker, or the generic join fallback.
func signOn(req Request, lookup StateLookup) (string, error) {
	if req.Variant != "" {
		return fmt.Sprintf("SIGNON %c%s %s %s",
			markerGeneric, req.Game, req.Password, req.Variant), nil
	}

	gs, ok, err := lookup(req.Game)
	if err != nil {
		return "", fmt.Errorf("mediator: looking up game %q: %w", req.Game, err)
	}

	marker := byte(markerGeneric)
	if ok && gs != nil {
		switch role := judge.ClassifyRole(gs, req.Identity); role.Kind {
		case judge.RoleMaster:
			marker = markerMaster
		case judge.RolePlayer:
			marker = role.Power[0]
		case judge.RoleObserver:
			marker = markerObserver
		}
	}
	return fmt.Sprintf("SIGNON %c%s %s", marker, req.Game, req.Password), nil
}

// FinalizeBody assembles the command stream the engine will read: the
// preamble (when one was resolved), the raw command, and exactly one
// trailing session-termination directive.
func FinalizeBody(ctx *CommandContext, rawCommand string) string {
	var b strings.Builder
	if ctx != nil && ctx.RequiresPreamble && ctx.Preamble != "" {
		b.WriteString(ctx.Preamble)
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimRight(rawCommand, "\n"))

	if !endsWithSignoff(b.String()) {
		b.WriteString("\n")
		b.WriteString(signoffDirective)
	}
	b.WriteString("\n")
	return b.String()
}

// endsWithSignoff reports whether the last non-blank line of the body is
// already a session-termination directive.
func endsWithSignoff(body string) bool {
	lines := strings.Split(body, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		return strings.EqualFold(line, signoffDirective) ||
			strings.EqualFold(line, "sign off")
	}
	return false
}
