package mediator

import (
	"errors"
	"strings"
	"testing"

	"github.com/dipgate/judged/pkg/judge"
)

func lookupFor(gs *judge.GameState) StateLookup {
	return func(name string) (*judge.GameState, bool, error) {
		if gs != nil && strings.EqualFold(gs.Name, name) {
			return gs, true, nil
		}
		return nil, false, nil
	}
}

func testGame() *judge.GameState {
	gs := judge.NewGameState("nexus")
	gs.Status = judge.StatusActive
	gs.Masters = []string{"gm@example.com"}
	gs.Observers = []string{"watcher@example.com"}
	gs.Players = []judge.Player{
		{Power: "France", Email: "alice@example.com", Status: "Playing"},
	}
	return gs
}

func TestResolvePlayerPreamble(t *testing.T) {
	ctx, err := Resolve(Request{
		Identity: "alice@example.com",
		Command:  "set wait",
		Game:     "nexus",
		Password: "secret",
	}, lookupFor(testGame()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ctx.RequiresPreamble {
		t.Fatal("player command should need a preamble")
	}
	if ctx.Preamble != "SIGNON Fnexus secret" {
		t.Errorf("preamble = %q", ctx.Preamble)
	}
	// Power initial immediately followed by the game name.
	if !strings.HasPrefix(strings.TrimPrefix(ctx.Preamble, "SIGNON "), "Fnexus") {
		t.Errorf("preamble not keyed by power initial: %q", ctx.Preamble)
	}
}

func TestResolveMasterPreamble(t *testing.T) {
	ctx, err := Resolve(Request{
		Identity: "gm@example.com",
		Command:  "process",
		Game:     "nexus",
		Password: "secret",
	}, lookupFor(testGame()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ctx.Preamble != "SIGNON Mnexus secret" {
		t.Errorf("master preamble = %q", ctx.Preamble)
	}
}

func TestResolveObserverPreamble(t *testing.T) {
	ctx, err := Resolve(Request{
		Identity: "watcher@example.com",
		Command:  "press to F",
		Game:     "nexus",
		Password: "secret",
	}, lookupFor(testGame()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ctx.Preamble != "SIGNON Onexus secret" {
		t.Errorf("observer preamble = %q", ctx.Preamble)
	}
}

func TestResolveUnknownIdentityFallsBack(t *testing.T) {
	ctx, err := Resolve(Request{
		Identity: "stranger@example.com",
		Command:  "set wait",
		Game:     "nexus",
		Password: "secret",
	}, lookupFor(testGame()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ctx.Preamble != "SIGNON ?nexus secret" {
		t.Errorf("fallback preamble = %q", ctx.Preamble)
	}
}

func TestResolveUnknownGameFallsBack(t *testing.T) {
	ctx, err := Resolve(Request{
		Identity: "alice@example.com",
		Command:  "set wait",
		Game:     "ghost",
		Password: "secret",
	}, lookupFor(testGame()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ctx.Preamble != "SIGNON ?ghost secret" {
		t.Errorf("unknown game preamble = %q", ctx.Preamble)
	}
}

func TestResolveVariantOverride(t *testing.T) {
	// Even a known player gets the join form when a variant is forced.
	ctx, err := Resolve(Request{
		Identity: "alice@example.com",
		Command:  "set wait",
		Game:     "nexus",
		Password: "secret",
		Variant:  "Standard Gunboat",
	}, lookupFor(testGame()))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ctx.Preamble != "SIGNON ?nexus secret Standard Gunboat" {
		t.Errorf("variant preamble = %q", ctx.Preamble)
	}
}

func TestResolveSignonPassesThrough(t *testing.T) {
	for _, cmd := range []string{"SIGNON Fnexus pw", "sign on Fnexus pw"} {
		ctx, err := Resolve(Request{Identity: "x@y", Command: cmd, Game: "nexus"}, lookupFor(nil))
		if err != nil {
			t.Fatalf("Resolve(%q): %v", cmd, err)
		}
		if ctx.RequiresPreamble {
			t.Errorf("%q already authenticates itself", cmd)
		}
	}
}

func TestResolveNoContextCommands(t *testing.T) {
	ctx, err := Resolve(Request{Command: "help"}, lookupFor(nil))
	if err != nil || ctx.RequiresPreamble {
		t.Errorf("help should need no context: ctx=%+v err=%v", ctx, err)
	}
	ctx, err = Resolve(Request{Command: "VERSION", Game: "nexus", Password: "pw"}, lookupFor(nil))
	if err != nil || ctx.RequiresPreamble {
		t.Errorf("version should need no context even with a target game: ctx=%+v err=%v", ctx, err)
	}
}

func TestResolveInlineGameName(t *testing.T) {
	ctx, err := Resolve(Request{
		Identity: "alice@example.com",
		Command:  "history nexus",
		Game:     "other",
	}, lookupFor(nil))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ctx.RequiresPreamble {
		t.Error("game-scoped command with inline name needs no preamble")
	}
	if ctx.EffectiveGameName != "nexus" {
		t.Errorf("effective game = %q, want the inline override", ctx.EffectiveGameName)
	}
}

func TestResolveReservedWordIsNotAGameName(t *testing.T) {
	_, err := Resolve(Request{Command: "list full", Game: "nexus"}, lookupFor(nil))
	// "full" is reserved, so the command needs sign-on context; with no
	// password that is a missing-context failure.
	if !IsMissingContext(err) {
		t.Errorf("err = %v, want missing context", err)
	}
}

func TestResolveMissingContext(t *testing.T) {
	_, err := Resolve(Request{Command: "set wait", Game: "nexus"}, lookupFor(nil))
	if !IsMissingContext(err) {
		t.Errorf("err = %v, want ErrMissingContext", err)
	}

	// No target game at all: the command passes through untouched.
	ctx, err := Resolve(Request{Command: "set wait"}, lookupFor(nil))
	if err != nil || ctx.RequiresPreamble {
		t.Errorf("no-game command should pass through: ctx=%+v err=%v", ctx, err)
	}
}

func TestResolveBadGameName(t *testing.T) {
	_, err := Resolve(Request{Command: "set wait", Game: "not a name!", Password: "pw"}, lookupFor(nil))
	if !errors.Is(err, ErrBadGameName) {
		t.Errorf("err = %v, want ErrBadGameName", err)
	}
}

func TestResolveStoreUnavailable(t *testing.T) {
	broken := func(string) (*judge.GameState, bool, error) {
		return nil, false, errors.New("bolt timed out")
	}
	_, err := Resolve(Request{
		Identity: "alice@example.com",
		Command:  "set wait",
		Game:     "nexus",
		Password: "secret",
	}, broken)
	if err == nil || IsMissingContext(err) {
		t.Errorf("store failure must propagate as its own error, got %v", err)
	}
}

func TestFinalizeBody(t *testing.T) {
	ctx := &CommandContext{RequiresPreamble: true, Preamble: "SIGNON Fnexus secret"}
	body := FinalizeBody(ctx, "set wait")
	want := "SIGNON Fnexus secret\nset wait\nSIGNOFF\n"
	if body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestFinalizeBodyNoDuplicateSignoff(t *testing.T) {
	body := FinalizeBody(nil, "set wait\nSIGNOFF")
	if strings.Count(strings.ToUpper(body), "SIGNOFF") != 1 {
		t.Errorf("body duplicated the signoff: %q", body)
	}
	body = FinalizeBody(nil, "set wait\nsignoff\n")
	if strings.Count(strings.ToUpper(body), "SIGNOFF") != 1 {
		t.Errorf("lowercase signoff not detected: %q", body)
	}
}
