package boltstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dipgate/judged/pkg/judge"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGameRoundTrip(t *testing.T) {
	s := openTestStore(t)

	gs := judge.NewGameState("nexus")
	gs.Status = judge.StatusActive
	gs.CurrentPhase = "F1904M"
	gs.Players = []judge.Player{{Power: "France", Email: "alice@example.com", Status: "Playing"}}
	gs.LastUpdated = time.Now()

	if err := s.PutGame(gs); err != nil {
		t.Fatalf("PutGame: %v", err)
	}

	got, err := s.GetGame("nexus")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got == nil {
		t.Fatal("GetGame returned nil for stored game")
	}
	if got.Status != judge.StatusActive || got.CurrentPhase != "F1904M" {
		t.Errorf("round trip mangled state: %+v", got)
	}
	if len(got.Players) != 1 || got.Players[0].Power != "France" {
		t.Errorf("players = %v", got.Players)
	}

	// Lookup by a differently cased name finds the same record.
	got, err = s.GetGame("NEXUS")
	if err != nil || got == nil {
		t.Fatalf("case-insensitive get failed: %v %v", got, err)
	}
}

func TestGetGameAbsent(t *testing.T) {
	s := openTestStore(t)
	got, err := s.GetGame("ghost")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got != nil {
		t.Errorf("absent game should be nil, got %+v", got)
	}

	gs, ok, err := s.Lookup("ghost")
	if err != nil || ok || gs != nil {
		t.Errorf("Lookup(ghost) = (%v, %v, %v)", gs, ok, err)
	}
}

func TestPutGameRejectsBadName(t *testing.T) {
	s := openTestStore(t)
	if err := s.PutGame(judge.NewGameState("no good")); err == nil {
		t.Error("malformed game name should be rejected")
	}
}

func TestListGames(t *testing.T) {
	s := openTestStore(t)
	for _, name := range []string{"alpha", "beta"} {
		if err := s.PutGame(judge.NewGameState(name)); err != nil {
			t.Fatalf("PutGame(%s): %v", name, err)
		}
	}
	games, err := s.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 2 {
		t.Errorf("games = %v, want 2", games)
	}
	if games["alpha"] == nil || games["beta"] == nil {
		t.Errorf("missing entries: %v", games)
	}
}

func TestPutGameOverwrites(t *testing.T) {
	s := openTestStore(t)

	gs := judge.NewGameState("nexus")
	gs.Status = judge.StatusForming
	if err := s.PutGame(gs); err != nil {
		t.Fatalf("PutGame: %v", err)
	}

	gs2 := judge.NewGameState("nexus")
	gs2.Status = judge.StatusActive
	if err := s.PutGame(gs2); err != nil {
		t.Fatalf("PutGame: %v", err)
	}

	got, err := s.GetGame("nexus")
	if err != nil || got == nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got.Status != judge.StatusActive {
		t.Errorf("overwrite did not take: %v", got.Status)
	}
}

func TestUsers(t *testing.T) {
	s := openTestStore(t)

	u, err := s.CreateUser("alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if !u.CheckPassword("hunter2") {
		t.Error("correct password rejected")
	}
	if u.CheckPassword("wrong") {
		t.Error("wrong password accepted")
	}

	if err := s.SetJudgePassword("alice@example.com", "nexus", "enginepw"); err != nil {
		t.Fatalf("SetJudgePassword: %v", err)
	}
	got, err := s.GetUser("ALICE@example.com")
	if err != nil || got == nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.JudgePassword("Nexus") != "enginepw" {
		t.Errorf("judge password = %q", got.JudgePassword("Nexus"))
	}

	if _, err := s.CreateUser("not-an-email", "pw"); err == nil {
		t.Error("bad email should be rejected")
	}
}
